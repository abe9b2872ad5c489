package criteria

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/zoo-enclosures/pkg/core/allocator"
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// CapacityCriterion prevents overfilling of enclosures.
//
// Validity:
//   - Returns false if the animal's space requirement exceeds the enclosure's remaining capacity
//   - An enclosure at zero remaining capacity still accepts an animal with zero space requirement
//
// Validation:
//   - Remaining capacity must equal starting capacity minus the space of animals placed in the pass
type CapacityCriterion struct{}

// NewCapacityCriterion creates a new CapacityCriterion
func NewCapacityCriterion() *CapacityCriterion {
	return &CapacityCriterion{}
}

func (c *CapacityCriterion) Name() string {
	return "Capacity"
}

func (c *CapacityCriterion) IsEnclosureValid(state *allocator.AssignmentState, animal *model.Animal, slot *allocator.EnclosureSlot) bool {
	return slot.CanFit(animal.SpaceRequirement)
}

func (c *CapacityCriterion) ValidateState(state *allocator.AssignmentState) []allocator.ValidationError {
	var errors []allocator.ValidationError

	placed := make(map[int64]decimal.Decimal)
	for _, placement := range state.Placements {
		placed[placement.EnclosureID] = placed[placement.EnclosureID].Add(decimal.NewFromFloat(placement.SpaceRequirement))
	}

	for _, slot := range state.Enclosures {
		expected := slot.StartingCapacity.Sub(placed[slot.Enclosure.ID])
		if !expected.Equal(slot.Remaining) {
			errors = append(errors, allocator.ValidationError{
				EnclosureID:   slot.Enclosure.ID,
				CriterionName: c.Name(),
				Description: fmt.Sprintf("Enclosure %s remaining capacity is %s but placements leave %s",
					slot.Enclosure.Name, slot.Remaining, expected),
			})
		}
	}

	return errors
}
