package db

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

var (
	// ErrNotFound is returned when a referenced animal, enclosure or zoo does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by CommitBatch when a record changed between read and commit
	ErrConflict = errors.New("concurrency conflict")

	// ErrSelfPrey is returned when an animal would list itself as prey
	ErrSelfPrey = errors.New("animal cannot prey on itself")
)

// AnimalFilter narrows ListAnimals. The zero value matches every animal.
// Text fields match a case-insensitive substring and are ignored when blank.
type AnimalFilter struct {
	// EnclosureID restricts to animals housed in this enclosure
	EnclosureID *int64

	// Unassigned restricts to animals without an enclosure
	Unassigned bool

	Name    string
	Species string

	CategoryID          *int64
	Size                *model.SizeClass
	DietaryClass        *model.DietaryClass
	ActivityPattern     *model.ActivityPattern
	SecurityRequirement *model.SecurityLevel

	// MinSpace keeps animals needing at least this much space
	MinSpace *float64

	// EnclosureName matches the name of the enclosure the animal is housed in
	EnclosureName string

	// PreySpecies keeps animals with at least one prey of a matching species
	PreySpecies string
}

// Matches reports whether the animal passes the filter. enclosureName is the
// name of the animal's enclosure (empty when unassigned) and preySpecies the
// species of its prey.
func (f AnimalFilter) Matches(a *model.Animal, enclosureName string, preySpecies []string) bool {
	if f.Unassigned && a.IsAssigned() {
		return false
	}
	if f.EnclosureID != nil && !a.InEnclosure(*f.EnclosureID) {
		return false
	}
	if !containsFold(a.Name, f.Name) || !containsFold(a.Species, f.Species) {
		return false
	}
	if f.CategoryID != nil && (a.CategoryID == nil || *a.CategoryID != *f.CategoryID) {
		return false
	}
	if f.Size != nil && a.Size != *f.Size {
		return false
	}
	if f.DietaryClass != nil && a.DietaryClass != *f.DietaryClass {
		return false
	}
	if f.ActivityPattern != nil && a.ActivityPattern != *f.ActivityPattern {
		return false
	}
	if f.SecurityRequirement != nil && a.SecurityRequirement != *f.SecurityRequirement {
		return false
	}
	if f.MinSpace != nil && a.SpaceRequirement < *f.MinSpace {
		return false
	}
	if needle(f.EnclosureName) != "" && (!a.IsAssigned() || !containsFold(enclosureName, f.EnclosureName)) {
		return false
	}
	if needle(f.PreySpecies) != "" && !slices.ContainsFunc(preySpecies, func(species string) bool {
		return species != "" && containsFold(species, f.PreySpecies)
	}) {
		return false
	}
	return true
}

// needle normalizes filter text for substring matching
func needle(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// containsFold reports whether value contains text, ignoring case. Blank text matches everything.
func containsFold(value, text string) bool {
	n := needle(text)
	return n == "" || strings.Contains(strings.ToLower(value), n)
}

// EnclosureFilter narrows ListEnclosures. The zero value matches every enclosure.
type EnclosureFilter struct {
	ZooID *int64
}

// Matches reports whether the enclosure passes the filter
func (f EnclosureFilter) Matches(e *model.Enclosure) bool {
	if f.ZooID != nil && (e.ZooID == nil || *e.ZooID != *f.ZooID) {
		return false
	}
	return true
}

// AnimalStore reads animals. Lists are ordered by ascending ID.
type AnimalStore interface {
	ListAnimals(ctx context.Context, filter AnimalFilter) ([]model.Animal, error)
	GetAnimal(ctx context.Context, id int64) (*model.Animal, error)
}

// EnclosureStore reads enclosures. Lists are ordered by ascending ID.
type EnclosureStore interface {
	ListEnclosures(ctx context.Context, filter EnclosureFilter) ([]model.Enclosure, error)
	GetEnclosure(ctx context.Context, id int64) (*model.Enclosure, error)
}

// BatchStore persists assignment batches
type BatchStore interface {
	// CommitBatch applies every mutation in the batch or none of them.
	// Returns ErrConflict if any expected version no longer matches.
	CommitBatch(ctx context.Context, batch Batch) error

	// ListBatches returns committed batches, oldest first
	ListBatches(ctx context.Context) ([]BatchRecord, error)
}

// Repository defines all storage operations.
// MemoryDB, sqlite.DB and postgres.DB implement this interface.
type Repository interface {
	AnimalStore
	EnclosureStore
	BatchStore

	ListCategories(ctx context.Context) ([]model.Category, error)
	ListZoos(ctx context.Context) ([]model.Zoo, error)
	GetZoo(ctx context.Context, id int64) (*model.Zoo, error)

	InsertZoo(ctx context.Context, zoo *model.Zoo) error
	InsertCategory(ctx context.Context, category *model.Category) error
	InsertEnclosure(ctx context.Context, enclosure *model.Enclosure) error

	// InsertAnimal stores a new animal. A housed animal takes its space from the
	// enclosure and moves the enclosure to a new version.
	InsertAnimal(ctx context.Context, animal *model.Animal) error

	// SetPrey replaces the prey list of an animal
	SetPrey(ctx context.Context, animalID int64, preyIDs []int64) error

	// DeleteAnimal removes an animal and every prey link pointing at it.
	// A housed animal gives its space back to its enclosure, whose version moves on.
	DeleteAnimal(ctx context.Context, id int64) error

	Close()
}
