package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// Scope selects which animals a report covers
type Scope int

const (
	ScopeZoo Scope = iota
	ScopeEnclosure
	ScopeAnimal
)

func (s Scope) String() string {
	switch s {
	case ScopeZoo:
		return "zoo"
	case ScopeEnclosure:
		return "enclosure"
	case ScopeAnimal:
		return "animal"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseScope parses "animal", "enclosure" or "zoo" (case-insensitive)
func ParseScope(value string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "zoo":
		return ScopeZoo, nil
	case "enclosure":
		return ScopeEnclosure, nil
	case "animal":
		return ScopeAnimal, nil
	default:
		return 0, fmt.Errorf("unknown scope %q (expected animal, enclosure or zoo)", value)
	}
}

// ScopeRequest identifies the animals a report covers.
// ID is required for animal and enclosure scope and optional for zoo scope.
type ScopeRequest struct {
	Scope Scope
	ID    *int64
}

// ScopedStore defines the database operations needed to resolve a scope
type ScopedStore interface {
	GetAnimal(ctx context.Context, id int64) (*model.Animal, error)
	GetEnclosure(ctx context.Context, id int64) (*model.Enclosure, error)
	GetZoo(ctx context.Context, id int64) (*model.Zoo, error)
	ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error)
	ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error)
}

// scopedAnimals resolves a scope to its animals, ordered by ID, and a lookup of
// every enclosure by ID for naming
func scopedAnimals(ctx context.Context, store ScopedStore, req ScopeRequest) ([]model.Animal, map[int64]model.Enclosure, error) {
	enclosures, err := store.ListEnclosures(ctx, db.EnclosureFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list enclosures: %w", err)
	}
	enclosureMap := make(map[int64]model.Enclosure, len(enclosures))
	for _, enclosure := range enclosures {
		enclosureMap[enclosure.ID] = enclosure
	}

	switch req.Scope {
	case ScopeAnimal:
		if req.ID == nil {
			return nil, nil, fmt.Errorf("animal scope requires an animal ID")
		}
		animal, err := store.GetAnimal(ctx, *req.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get animal: %w", err)
		}
		return []model.Animal{*animal}, enclosureMap, nil

	case ScopeEnclosure:
		if req.ID == nil {
			return nil, nil, fmt.Errorf("enclosure scope requires an enclosure ID")
		}
		enclosure, err := store.GetEnclosure(ctx, *req.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get enclosure: %w", err)
		}
		animals, err := store.ListAnimals(ctx, db.AnimalFilter{EnclosureID: &enclosure.ID})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list animals: %w", err)
		}
		return animals, enclosureMap, nil

	case ScopeZoo:
		animals, err := store.ListAnimals(ctx, db.AnimalFilter{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list animals: %w", err)
		}
		if req.ID == nil {
			return animals, enclosureMap, nil
		}

		if _, err := store.GetZoo(ctx, *req.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to get zoo: %w", err)
		}
		inZoo := make([]model.Animal, 0, len(animals))
		for _, animal := range animals {
			if animal.EnclosureID == nil {
				continue
			}
			enclosure, ok := enclosureMap[*animal.EnclosureID]
			if ok && enclosure.ZooID != nil && *enclosure.ZooID == *req.ID {
				inZoo = append(inZoo, animal)
			}
		}
		return inZoo, enclosureMap, nil
	}

	return nil, nil, fmt.Errorf("unknown scope %s", req.Scope)
}

// enclosureName returns the name of the animal's enclosure, or "" when unassigned
func enclosureName(animal *model.Animal, enclosures map[int64]model.Enclosure) string {
	if animal.EnclosureID == nil {
		return ""
	}
	if enclosure, ok := enclosures[*animal.EnclosureID]; ok {
		return enclosure.Name
	}
	return ""
}
