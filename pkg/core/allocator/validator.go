package allocator

import "fmt"

// ValidateAssignmentState validates the final state against the core invariants and
// every provided criterion. An empty slice indicates the state is valid.
func ValidateAssignmentState(state *AssignmentState, criteria []Criterion) []ValidationError {
	errors := validateCoreInvariants(state)

	for _, criterion := range criteria {
		errors = append(errors, criterion.ValidateState(state)...)
	}

	return errors
}

// validateCoreInvariants checks invariants that hold regardless of criteria
func validateCoreInvariants(state *AssignmentState) []ValidationError {
	var errors []ValidationError

	for _, slot := range state.Enclosures {
		if slot.Remaining.IsNegative() {
			errors = append(errors, ValidationError{
				EnclosureID:   slot.Enclosure.ID,
				CriterionName: "Core",
				Description:   fmt.Sprintf("Enclosure %s has negative remaining capacity %s", slot.Enclosure.Name, slot.Remaining),
			})
		}

		seen := make(map[int64]bool, len(slot.OccupantIDs))
		for _, animalID := range slot.OccupantIDs {
			if seen[animalID] {
				errors = append(errors, ValidationError{
					AnimalID:      animalID,
					EnclosureID:   slot.Enclosure.ID,
					CriterionName: "Core",
					Description:   fmt.Sprintf("Animal %d is listed twice in enclosure %s", animalID, slot.Enclosure.Name),
				})
			}
			seen[animalID] = true

			animal := state.Animal(animalID)
			if animal == nil || !animal.InEnclosure(slot.Enclosure.ID) {
				errors = append(errors, ValidationError{
					AnimalID:      animalID,
					EnclosureID:   slot.Enclosure.ID,
					CriterionName: "Core",
					Description:   fmt.Sprintf("Occupant list of enclosure %s does not match animal %d", slot.Enclosure.Name, animalID),
				})
			}
		}
	}

	for _, placement := range state.Placements {
		animal := state.Animal(placement.AnimalID)
		if animal == nil || !animal.InEnclosure(placement.EnclosureID) {
			errors = append(errors, ValidationError{
				AnimalID:      placement.AnimalID,
				EnclosureID:   placement.EnclosureID,
				CriterionName: "Core",
				Description:   fmt.Sprintf("Placement of animal %d was not applied", placement.AnimalID),
			})
		}
	}

	return errors
}
