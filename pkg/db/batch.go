package db

import (
	"fmt"
	"slices"
	"time"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// AnimalMutation sets the enclosure of an animal
type AnimalMutation struct {
	AnimalID        int64
	ExpectedVersion int64
	EnclosureID     *int64
}

// EnclosureMutation sets the remaining capacity of an enclosure
type EnclosureMutation struct {
	EnclosureID       int64
	ExpectedVersion   int64
	RemainingCapacity float64
}

// Batch is one atomic unit of assignment work
type Batch struct {
	ID          string
	ResetAll    bool
	PlacedCount int
	Animals     []AnimalMutation
	Enclosures  []EnclosureMutation
}

// IsEmpty returns true if the batch carries no mutations
func (b *Batch) IsEmpty() bool {
	return len(b.Animals) == 0 && len(b.Enclosures) == 0
}

// BatchRecord is the stored summary of a committed batch
type BatchRecord struct {
	ID          string
	ResetAll    bool
	PlacedCount int
	CommittedAt time.Time
}

// validateEnclosureMutation checks invariants that hold regardless of storage backend
func validateEnclosureMutation(m EnclosureMutation) error {
	if m.RemainingCapacity < 0 {
		return fmt.Errorf("enclosure %d: remaining capacity cannot be negative (%g)", m.EnclosureID, m.RemainingCapacity)
	}
	return nil
}

// ValidateBatch checks the batch before any storage is touched
func ValidateBatch(batch Batch) error {
	if batch.ID == "" {
		return fmt.Errorf("batch has no id")
	}
	for _, m := range batch.Enclosures {
		if err := validateEnclosureMutation(m); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePrey checks a prey list for an animal
func ValidatePrey(animalID int64, preyIDs []int64) error {
	for _, preyID := range preyIDs {
		if preyID == animalID {
			return fmt.Errorf("animal %d: %w", animalID, ErrSelfPrey)
		}
	}
	return nil
}

// ValidateNewEnclosure checks invariants for an enclosure about to be inserted
func ValidateNewEnclosure(e *model.Enclosure) error {
	if e.Size <= 0 {
		return fmt.Errorf("enclosure %q: size must be positive, got %g", e.Name, e.Size)
	}
	if e.RemainingCapacity < 0 || e.RemainingCapacity > e.Size {
		return fmt.Errorf("enclosure %q: remaining capacity %g outside [0, %g]", e.Name, e.RemainingCapacity, e.Size)
	}
	return nil
}

// ValidateNewAnimal checks invariants for an animal about to be inserted
func ValidateNewAnimal(a *model.Animal) error {
	if a.SpaceRequirement <= 0 {
		return fmt.Errorf("animal %q: space requirement must be positive, got %g", a.Name, a.SpaceRequirement)
	}
	return ValidatePrey(a.ID, a.PreyIDs)
}

// PrepareNewEnclosure fills defaults and validates an enclosure about to be inserted.
// A zero remaining capacity is taken to mean the enclosure is empty.
func PrepareNewEnclosure(e *model.Enclosure) error {
	if e.RemainingCapacity == 0 {
		e.RemainingCapacity = e.Size
	}
	return ValidateNewEnclosure(e)
}

// HouseAnimal takes space out of an enclosure's remaining capacity for an animal
// placed by hand, clamped at 0, and moves the enclosure to a new version
func HouseAnimal(e *model.Enclosure, space float64) {
	e.RemainingCapacity = max(e.RemainingCapacity-space, 0)
	e.Version++
}

// VacateAnimal gives space back to an enclosure, capped at its rated size,
// and moves the enclosure to a new version
func VacateAnimal(e *model.Enclosure, space float64) {
	e.RemainingCapacity = min(e.RemainingCapacity+space, e.Size)
	e.Version++
}

// NormalizePrey returns the prey IDs sorted and without duplicates
func NormalizePrey(preyIDs []int64) []int64 {
	ids := slices.Clone(preyIDs)
	slices.Sort(ids)
	return slices.Compact(ids)
}
