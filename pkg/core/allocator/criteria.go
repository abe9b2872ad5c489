package allocator

import "github.com/jakechorley/zoo-enclosures/pkg/core/model"

// ValidationError represents a constraint violation found in the final state
type ValidationError struct {
	AnimalID      int64
	EnclosureID   int64
	CriterionName string
	Description   string
}

// Criterion is a hard constraint on placing an animal into an enclosure
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsEnclosureValid determines if the animal may be placed into the enclosure slot.
	// This acts as a veto - if ANY criterion returns false, the enclosure is skipped.
	IsEnclosureValid(state *AssignmentState, animal *model.Animal, slot *EnclosureSlot) bool

	// ValidateState checks the final state after the pass.
	// Returns a slice of validation errors (empty if all valid).
	ValidateState(state *AssignmentState) []ValidationError
}

// IsEnclosureValidForAnimal returns true only if every criterion accepts the placement
func IsEnclosureValidForAnimal(state *AssignmentState, animal *model.Animal, slot *EnclosureSlot, criteria []Criterion) bool {
	for _, criterion := range criteria {
		if !criterion.IsEnclosureValid(state, animal, slot) {
			return false
		}
	}
	return true
}
