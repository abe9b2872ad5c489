package db

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// MemoryDB is an in-process Repository. Reads return copies taken under a read lock,
// so readers never observe a batch that is only partly applied.
type MemoryDB struct {
	mu sync.RWMutex

	lastID     int64
	zoos       map[int64]model.Zoo
	categories map[int64]model.Category
	enclosures map[int64]model.Enclosure
	animals    map[int64]model.Animal
	batches    []BatchRecord
}

// NewMemoryDB creates an empty in-memory database
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		zoos:       make(map[int64]model.Zoo),
		categories: make(map[int64]model.Category),
		enclosures: make(map[int64]model.Enclosure),
		animals:    make(map[int64]model.Animal),
	}
}

// Close is a no-op for the in-memory database
func (m *MemoryDB) Close() {}

func (m *MemoryDB) nextID() int64 {
	m.lastID++
	return m.lastID
}

// ListAnimals returns animals matching the filter, ordered by ID
func (m *MemoryDB) ListAnimals(ctx context.Context, filter AnimalFilter) ([]model.Animal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	animals := []model.Animal{}
	for _, id := range slices.Sorted(maps.Keys(m.animals)) {
		a := m.animals[id]
		if filter.Matches(&a, m.enclosureName(&a), m.preySpecies(&a)) {
			animals = append(animals, a.Clone())
		}
	}
	return animals, nil
}

func (m *MemoryDB) enclosureName(a *model.Animal) string {
	if a.EnclosureID == nil {
		return ""
	}
	return m.enclosures[*a.EnclosureID].Name
}

func (m *MemoryDB) preySpecies(a *model.Animal) []string {
	species := make([]string, 0, len(a.PreyIDs))
	for _, preyID := range a.PreyIDs {
		species = append(species, m.animals[preyID].Species)
	}
	return species
}

// GetAnimal returns a single animal
func (m *MemoryDB) GetAnimal(ctx context.Context, id int64) (*model.Animal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.animals[id]
	if !ok {
		return nil, fmt.Errorf("animal %d: %w", id, ErrNotFound)
	}
	clone := a.Clone()
	return &clone, nil
}

// ListEnclosures returns enclosures matching the filter, ordered by ID
func (m *MemoryDB) ListEnclosures(ctx context.Context, filter EnclosureFilter) ([]model.Enclosure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	enclosures := []model.Enclosure{}
	for _, id := range slices.Sorted(maps.Keys(m.enclosures)) {
		e := m.enclosures[id]
		if filter.Matches(&e) {
			enclosures = append(enclosures, e.Clone())
		}
	}
	return enclosures, nil
}

// GetEnclosure returns a single enclosure
func (m *MemoryDB) GetEnclosure(ctx context.Context, id int64) (*model.Enclosure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.enclosures[id]
	if !ok {
		return nil, fmt.Errorf("enclosure %d: %w", id, ErrNotFound)
	}
	clone := e.Clone()
	return &clone, nil
}

// ListCategories returns all categories ordered by ID
func (m *MemoryDB) ListCategories(ctx context.Context) ([]model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := []model.Category{}
	for _, id := range slices.Sorted(maps.Keys(m.categories)) {
		categories = append(categories, m.categories[id])
	}
	return categories, nil
}

// ListZoos returns all zoos ordered by ID
func (m *MemoryDB) ListZoos(ctx context.Context) ([]model.Zoo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zoos := []model.Zoo{}
	for _, id := range slices.Sorted(maps.Keys(m.zoos)) {
		zoos = append(zoos, m.zoos[id])
	}
	return zoos, nil
}

// GetZoo returns a single zoo
func (m *MemoryDB) GetZoo(ctx context.Context, id int64) (*model.Zoo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	z, ok := m.zoos[id]
	if !ok {
		return nil, fmt.Errorf("zoo %d: %w", id, ErrNotFound)
	}
	return &z, nil
}

// InsertZoo inserts a zoo and sets its ID
func (m *MemoryDB) InsertZoo(ctx context.Context, zoo *model.Zoo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	zoo.ID = m.nextID()
	m.zoos[zoo.ID] = *zoo
	return nil
}

// InsertCategory inserts a category and sets its ID
func (m *MemoryDB) InsertCategory(ctx context.Context, category *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	category.ID = m.nextID()
	m.categories[category.ID] = *category
	return nil
}

// InsertEnclosure inserts an enclosure and sets its ID and version
func (m *MemoryDB) InsertEnclosure(ctx context.Context, enclosure *model.Enclosure) error {
	if err := PrepareNewEnclosure(enclosure); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if enclosure.ZooID != nil {
		if _, ok := m.zoos[*enclosure.ZooID]; !ok {
			return fmt.Errorf("zoo %d: %w", *enclosure.ZooID, ErrNotFound)
		}
	}

	enclosure.ID = m.nextID()
	enclosure.Version = 1
	m.enclosures[enclosure.ID] = enclosure.Clone()
	return nil
}

// InsertAnimal inserts an animal and sets its ID and version.
// Housing the animal takes its space from the enclosure and bumps the enclosure's version.
func (m *MemoryDB) InsertAnimal(ctx context.Context, animal *model.Animal) error {
	if err := ValidateNewAnimal(animal); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var enclosure model.Enclosure
	if animal.EnclosureID != nil {
		var ok bool
		if enclosure, ok = m.enclosures[*animal.EnclosureID]; !ok {
			return fmt.Errorf("enclosure %d: %w", *animal.EnclosureID, ErrNotFound)
		}
	}
	for _, preyID := range animal.PreyIDs {
		if _, ok := m.animals[preyID]; !ok {
			return fmt.Errorf("prey animal %d: %w", preyID, ErrNotFound)
		}
	}

	if animal.EnclosureID != nil {
		HouseAnimal(&enclosure, animal.SpaceRequirement)
		m.enclosures[enclosure.ID] = enclosure
	}

	animal.PreyIDs = NormalizePrey(animal.PreyIDs)
	animal.ID = m.nextID()
	animal.Version = 1
	m.animals[animal.ID] = animal.Clone()
	return nil
}

// SetPrey replaces the prey list of an animal
func (m *MemoryDB) SetPrey(ctx context.Context, animalID int64, preyIDs []int64) error {
	if err := ValidatePrey(animalID, preyIDs); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.animals[animalID]
	if !ok {
		return fmt.Errorf("animal %d: %w", animalID, ErrNotFound)
	}
	for _, preyID := range preyIDs {
		if _, ok := m.animals[preyID]; !ok {
			return fmt.Errorf("prey animal %d: %w", preyID, ErrNotFound)
		}
	}

	a.PreyIDs = NormalizePrey(preyIDs)
	a.Version++
	m.animals[animalID] = a
	return nil
}

// DeleteAnimal removes an animal, gives its space back to its enclosure and
// drops it from every prey list
func (m *MemoryDB) DeleteAnimal(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	animal, ok := m.animals[id]
	if !ok {
		return fmt.Errorf("animal %d: %w", id, ErrNotFound)
	}
	delete(m.animals, id)

	if animal.EnclosureID != nil {
		if enclosure, ok := m.enclosures[*animal.EnclosureID]; ok {
			VacateAnimal(&enclosure, animal.SpaceRequirement)
			m.enclosures[enclosure.ID] = enclosure
		}
	}

	for otherID, other := range m.animals {
		if !slices.Contains(other.PreyIDs, id) {
			continue
		}
		other.PreyIDs = slices.DeleteFunc(other.PreyIDs, func(preyID int64) bool { return preyID == id })
		other.Version++
		m.animals[otherID] = other
	}
	return nil
}

// CommitBatch applies all mutations under a single write lock, or none of them
func (m *MemoryDB) CommitBatch(ctx context.Context, batch Batch) error {
	if err := ValidateBatch(batch); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Check every version before touching anything
	for _, mut := range batch.Animals {
		a, ok := m.animals[mut.AnimalID]
		if !ok {
			return fmt.Errorf("animal %d: %w", mut.AnimalID, ErrNotFound)
		}
		if a.Version != mut.ExpectedVersion {
			return fmt.Errorf("animal %d changed (version %d, expected %d): %w", mut.AnimalID, a.Version, mut.ExpectedVersion, ErrConflict)
		}
		if mut.EnclosureID != nil {
			if _, ok := m.enclosures[*mut.EnclosureID]; !ok {
				return fmt.Errorf("enclosure %d: %w", *mut.EnclosureID, ErrNotFound)
			}
		}
	}
	for _, mut := range batch.Enclosures {
		e, ok := m.enclosures[mut.EnclosureID]
		if !ok {
			return fmt.Errorf("enclosure %d: %w", mut.EnclosureID, ErrNotFound)
		}
		if e.Version != mut.ExpectedVersion {
			return fmt.Errorf("enclosure %d changed (version %d, expected %d): %w", mut.EnclosureID, e.Version, mut.ExpectedVersion, ErrConflict)
		}
	}

	for _, mut := range batch.Animals {
		a := m.animals[mut.AnimalID]
		a.EnclosureID = nil
		if mut.EnclosureID != nil {
			id := *mut.EnclosureID
			a.EnclosureID = &id
		}
		a.Version++
		m.animals[mut.AnimalID] = a
	}
	for _, mut := range batch.Enclosures {
		e := m.enclosures[mut.EnclosureID]
		e.RemainingCapacity = mut.RemainingCapacity
		e.Version++
		m.enclosures[mut.EnclosureID] = e
	}

	m.batches = append(m.batches, BatchRecord{
		ID:          batch.ID,
		ResetAll:    batch.ResetAll,
		PlacedCount: batch.PlacedCount,
		CommittedAt: time.Now().UTC(),
	})
	return nil
}

// Batches returns the records of all committed batches, oldest first
func (m *MemoryDB) Batches() []BatchRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.batches)
}

// ListBatches returns the records of all committed batches, oldest first
func (m *MemoryDB) ListBatches(ctx context.Context) ([]BatchRecord, error) {
	return m.Batches(), nil
}

var _ Repository = (*MemoryDB)(nil)
