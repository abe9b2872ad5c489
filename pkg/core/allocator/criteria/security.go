package criteria

import (
	"fmt"

	"github.com/jakechorley/zoo-enclosures/pkg/core/allocator"
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// SecurityCriterion only allows enclosures at or above the animal's security requirement.
// Placements made in the pass are re-checked during validation; assignments that
// existed before the pass are left to the evaluator.
type SecurityCriterion struct{}

// NewSecurityCriterion creates a new SecurityCriterion
func NewSecurityCriterion() *SecurityCriterion {
	return &SecurityCriterion{}
}

func (c *SecurityCriterion) Name() string {
	return "Security"
}

func (c *SecurityCriterion) IsEnclosureValid(state *allocator.AssignmentState, animal *model.Animal, slot *allocator.EnclosureSlot) bool {
	return slot.Enclosure.SecurityLevel >= animal.SecurityRequirement
}

func (c *SecurityCriterion) ValidateState(state *allocator.AssignmentState) []allocator.ValidationError {
	var errors []allocator.ValidationError

	for _, placement := range state.Placements {
		animal := state.Animal(placement.AnimalID)
		slot := state.Slot(placement.EnclosureID)
		if animal == nil || slot == nil {
			continue
		}
		if slot.Enclosure.SecurityLevel < animal.SecurityRequirement {
			errors = append(errors, allocator.ValidationError{
				AnimalID:      animal.ID,
				EnclosureID:   slot.Enclosure.ID,
				CriterionName: c.Name(),
				Description: fmt.Sprintf("Animal %s requires %s security but enclosure %s is %s",
					animal.Name, animal.SecurityRequirement, slot.Enclosure.Name, slot.Enclosure.SecurityLevel),
			})
		}
	}

	return errors
}
