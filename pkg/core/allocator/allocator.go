package allocator

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// Allocator places unassigned animals into enclosures with configurable criteria
type Allocator struct {
	criteria []Criterion
	state    *AssignmentState
}

// AssignmentConfig contains the configuration for an assignment pass
type AssignmentConfig struct {
	// Criteria that veto a placement. Diet is deliberately not one of the defaults.
	Criteria []Criterion

	// Animals is the snapshot of every animal in scope
	Animals []model.Animal

	// Enclosures is the snapshot of every candidate enclosure
	Enclosures []model.Enclosure

	// ResetAll unassigns every animal before placing
	ResetAll bool
}

// AssignmentOutcome represents the result of an assignment pass
type AssignmentOutcome struct {
	// State is the final working state after the pass
	State *AssignmentState

	// Placements in the order they were made
	Placements []Placement

	// Unplaced contains animals left without an enclosure because none fit
	Unplaced []*model.Animal

	// ValidationErrors contains any violations found in the final state
	ValidationErrors []ValidationError
}

// Assign runs a greedy first-fit pass: each unassigned animal, in ID order, goes into
// the first enclosure, in ID order, that every criterion accepts. Animals that fit
// nowhere stay unassigned. Nothing is persisted here.
func Assign(ctx context.Context, config AssignmentConfig) (*AssignmentOutcome, error) {
	allocator, err := InitAllocator(config)
	if err != nil {
		return nil, err
	}

	for _, animal := range allocator.state.Unassigned() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slot := allocator.findFirstFit(animal)
		if slot == nil {
			continue
		}

		allocator.placeAnimal(animal, slot)
	}

	return allocator.buildOutcome(), nil
}

// InitAllocator builds the allocator and its working state
func InitAllocator(config AssignmentConfig) (*Allocator, error) {
	state, err := InitAssignmentState(InitAssignmentInput{
		Animals:    config.Animals,
		Enclosures: config.Enclosures,
		ResetAll:   config.ResetAll,
	})
	if err != nil {
		return nil, err
	}

	return &Allocator{
		criteria: config.Criteria,
		state:    state,
	}, nil
}

// findFirstFit returns the lowest-ID enclosure that accepts the animal, or nil
func (a *Allocator) findFirstFit(animal *model.Animal) *EnclosureSlot {
	for _, slot := range a.state.Enclosures {
		if IsEnclosureValidForAnimal(a.state, animal, slot, a.criteria) {
			return slot
		}
	}
	return nil
}

// placeAnimal assigns the animal to the slot and reduces its remaining capacity
func (a *Allocator) placeAnimal(animal *model.Animal, slot *EnclosureSlot) {
	id := slot.Enclosure.ID
	animal.EnclosureID = &id

	slot.Remaining = slot.Remaining.Sub(decimal.NewFromFloat(animal.SpaceRequirement))
	slot.OccupantIDs = append(slot.OccupantIDs, animal.ID)

	a.state.Placements = append(a.state.Placements, Placement{
		AnimalID:         animal.ID,
		AnimalName:       animal.Name,
		EnclosureID:      id,
		EnclosureName:    slot.Enclosure.Name,
		SpaceRequirement: animal.SpaceRequirement,
	})
}

// buildOutcome creates the final assignment outcome report
func (a *Allocator) buildOutcome() *AssignmentOutcome {
	// Initialize with empty slices (not nil) for easier consumption
	outcome := &AssignmentOutcome{
		State:            a.state,
		Placements:       a.state.Placements,
		Unplaced:         []*model.Animal{},
		ValidationErrors: []ValidationError{},
	}

	outcome.Unplaced = append(outcome.Unplaced, a.state.Unassigned()...)
	outcome.ValidationErrors = append(outcome.ValidationErrors, ValidateAssignmentState(a.state, a.criteria)...)

	return outcome
}

// PlacedCount returns the number of animals placed during the pass
func (o *AssignmentOutcome) PlacedCount() int {
	return len(o.Placements)
}

// Valid reports whether the final state passed validation
func (o *AssignmentOutcome) Valid() bool {
	return len(o.ValidationErrors) == 0
}
