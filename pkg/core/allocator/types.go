package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// AssignmentState is the in-memory working set of one assignment pass
type AssignmentState struct {
	// Animals is the full working set, ordered by ascending ID.
	// EnclosureID is updated in place as animals are placed.
	Animals []*model.Animal

	// Enclosures being filled, ordered by ascending ID
	Enclosures []*EnclosureSlot

	// Placements made during this pass, in placement order
	Placements []Placement

	// Cleared holds the IDs of animals unassigned by a reset, in ID order
	Cleared []int64

	// original enclosure of each animal before the pass
	original map[int64]*int64
}

// EnclosureSlot tracks an enclosure and its remaining capacity during a pass
type EnclosureSlot struct {
	Enclosure model.Enclosure

	// Index in the Enclosures array
	Index int

	// StartingCapacity is the rated size minus the space of animals housed at the start of the pass
	StartingCapacity decimal.Decimal

	// Remaining is the free capacity, reduced as animals are placed
	Remaining decimal.Decimal

	// OccupantIDs are the animals housed here, including ones placed during the pass
	OccupantIDs []int64
}

// Placement records one animal placed into an enclosure
type Placement struct {
	AnimalID         int64
	AnimalName       string
	EnclosureID      int64
	EnclosureName    string
	SpaceRequirement float64
}

// RemainingFloat returns the remaining capacity as a float, for storage
func (s *EnclosureSlot) RemainingFloat() float64 {
	return s.Remaining.InexactFloat64()
}

// CanFit returns true if the remaining capacity covers the space requirement
func (s *EnclosureSlot) CanFit(spaceRequirement float64) bool {
	return s.Remaining.GreaterThanOrEqual(decimal.NewFromFloat(spaceRequirement))
}

// CapacityChanged reports whether the remaining capacity differs from the stored value
func (s *EnclosureSlot) CapacityChanged() bool {
	return !s.Remaining.Equal(decimal.NewFromFloat(s.Enclosure.RemainingCapacity))
}

// Slot returns the slot for the given enclosure, or nil if it is not part of the pass
func (rs *AssignmentState) Slot(enclosureID int64) *EnclosureSlot {
	for _, slot := range rs.Enclosures {
		if slot.Enclosure.ID == enclosureID {
			return slot
		}
	}
	return nil
}

// Animal returns the working copy of the given animal, or nil
func (rs *AssignmentState) Animal(animalID int64) *model.Animal {
	for _, a := range rs.Animals {
		if a.ID == animalID {
			return a
		}
	}
	return nil
}

// Unassigned returns animals without an enclosure, in ID order
func (rs *AssignmentState) Unassigned() []*model.Animal {
	var result []*model.Animal
	for _, a := range rs.Animals {
		if !a.IsAssigned() {
			result = append(result, a)
		}
	}
	return result
}

// ChangedAnimals returns animals whose enclosure differs from the start of the pass
func (rs *AssignmentState) ChangedAnimals() []*model.Animal {
	var result []*model.Animal
	for _, a := range rs.Animals {
		if !sameEnclosure(rs.original[a.ID], a.EnclosureID) {
			result = append(result, a)
		}
	}
	return result
}

// ChangedEnclosures returns slots whose remaining capacity differs from the stored value
func (rs *AssignmentState) ChangedEnclosures() []*EnclosureSlot {
	var result []*EnclosureSlot
	for _, slot := range rs.Enclosures {
		if slot.CapacityChanged() {
			result = append(result, slot)
		}
	}
	return result
}

func sameEnclosure(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
