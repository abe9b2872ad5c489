package allocator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// InitAssignmentInput contains the snapshot an assignment pass starts from
type InitAssignmentInput struct {
	Animals    []model.Animal
	Enclosures []model.Enclosure
	ResetAll   bool
}

// InitAssignmentState builds the working state for a pass.
// Animals and enclosures are copied and ordered by ID. When ResetAll is set every
// animal is unassigned first. Each enclosure's remaining capacity is recomputed from
// its rated size and the space of the animals still housed in it, clamped at zero.
func InitAssignmentState(input InitAssignmentInput) (*AssignmentState, error) {
	state := &AssignmentState{
		Animals:    make([]*model.Animal, 0, len(input.Animals)),
		Enclosures: make([]*EnclosureSlot, 0, len(input.Enclosures)),
		Placements: []Placement{},
		Cleared:    []int64{},
		original:   make(map[int64]*int64, len(input.Animals)),
	}

	seenAnimals := make(map[int64]bool, len(input.Animals))
	for i := range input.Animals {
		animal := input.Animals[i].Clone()
		if seenAnimals[animal.ID] {
			return nil, fmt.Errorf("duplicate animal ID %d", animal.ID)
		}
		seenAnimals[animal.ID] = true
		if animal.SpaceRequirement < 0 {
			return nil, fmt.Errorf("animal %d has negative space requirement %v", animal.ID, animal.SpaceRequirement)
		}
		state.original[animal.ID] = cloneID(animal.EnclosureID)
		state.Animals = append(state.Animals, &animal)
	}
	slices.SortFunc(state.Animals, func(a, b *model.Animal) int {
		return compareInt64(a.ID, b.ID)
	})

	seenEnclosures := make(map[int64]bool, len(input.Enclosures))
	for i := range input.Enclosures {
		enclosure := input.Enclosures[i].Clone()
		if seenEnclosures[enclosure.ID] {
			return nil, fmt.Errorf("duplicate enclosure ID %d", enclosure.ID)
		}
		seenEnclosures[enclosure.ID] = true
		state.Enclosures = append(state.Enclosures, &EnclosureSlot{
			Enclosure:   enclosure,
			OccupantIDs: []int64{},
		})
	}
	slices.SortFunc(state.Enclosures, func(a, b *EnclosureSlot) int {
		return compareInt64(a.Enclosure.ID, b.Enclosure.ID)
	})

	if input.ResetAll {
		for _, animal := range state.Animals {
			if animal.IsAssigned() {
				animal.EnclosureID = nil
				state.Cleared = append(state.Cleared, animal.ID)
			}
		}
	}

	// Occupancy per enclosure from the animals still assigned
	occupied := make(map[int64]decimal.Decimal, len(state.Enclosures))
	for _, animal := range state.Animals {
		if !animal.IsAssigned() {
			continue
		}
		id := *animal.EnclosureID
		occupied[id] = occupied[id].Add(decimal.NewFromFloat(animal.SpaceRequirement))
	}

	for i, slot := range state.Enclosures {
		slot.Index = i
		remaining := decimal.NewFromFloat(slot.Enclosure.Size).Sub(occupied[slot.Enclosure.ID])
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		slot.StartingCapacity = remaining
		slot.Remaining = remaining
		for _, animal := range state.Animals {
			if animal.InEnclosure(slot.Enclosure.ID) {
				slot.OccupantIDs = append(slot.OccupantIDs, animal.ID)
			}
		}
	}

	return state, nil
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
