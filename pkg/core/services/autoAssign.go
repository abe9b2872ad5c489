package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/allocator"
	"github.com/jakechorley/zoo-enclosures/pkg/core/allocator/criteria"
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// AutoAssignStore defines the database operations needed for auto-assignment
type AutoAssignStore interface {
	ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error)
	ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error)
	CommitBatch(ctx context.Context, batch db.Batch) error
}

// AutoAssignOptions controls an auto-assignment run
type AutoAssignOptions struct {
	// ResetAll unassigns every animal before placing
	ResetAll bool

	// DryRun computes the outcome without committing it
	DryRun bool
}

// AutoAssignResult represents the result of an auto-assignment run
type AutoAssignResult struct {
	// BatchID identifies the committed batch. Empty when nothing was committed.
	BatchID string

	// ReassignedCount is the number of animals placed into an enclosure
	ReassignedCount int

	// ClearedCount is the number of animals unassigned by a reset
	ClearedCount int

	Placements []allocator.Placement
	Unplaced   []model.Animal

	// Committed is true when a batch was written to the store
	Committed bool
}

// AutoAssign places unassigned animals into enclosures with greedy first-fit and
// commits the changes as one batch. Diet restrictions are not considered.
// A conflict or storage failure leaves the store unchanged and is returned as
// "assignment failed: <reason>"; callers may re-run with a fresh snapshot.
func AutoAssign(ctx context.Context, store AutoAssignStore, logger *zap.Logger, opts AutoAssignOptions) (*AutoAssignResult, error) {
	logger.Debug("Starting auto-assignment",
		zap.Bool("reset_all", opts.ResetAll),
		zap.Bool("dry_run", opts.DryRun))

	// Snapshot the current state
	animals, err := store.ListAnimals(ctx, db.AnimalFilter{})
	if err != nil {
		return nil, assignmentFailed(fmt.Errorf("failed to list animals: %w", err))
	}

	enclosures, err := store.ListEnclosures(ctx, db.EnclosureFilter{})
	if err != nil {
		return nil, assignmentFailed(fmt.Errorf("failed to list enclosures: %w", err))
	}

	logger.Debug("Loaded snapshot",
		zap.Int("animal_count", len(animals)),
		zap.Int("enclosure_count", len(enclosures)))

	outcome, err := allocator.Assign(ctx, allocator.AssignmentConfig{
		Criteria:   criteria.Default(),
		Animals:    animals,
		Enclosures: enclosures,
		ResetAll:   opts.ResetAll,
	})
	if err != nil {
		return nil, assignmentFailed(err)
	}

	if !outcome.Valid() {
		for _, validationErr := range outcome.ValidationErrors {
			logger.Error("Assignment validation error",
				zap.String("criterion", validationErr.CriterionName),
				zap.Int64("animal_id", validationErr.AnimalID),
				zap.Int64("enclosure_id", validationErr.EnclosureID),
				zap.String("description", validationErr.Description))
		}
		return nil, assignmentFailed(fmt.Errorf("%d validation errors in assignment state", len(outcome.ValidationErrors)))
	}

	result := &AutoAssignResult{
		ReassignedCount: outcome.PlacedCount(),
		ClearedCount:    len(outcome.State.Cleared),
		Placements:      outcome.Placements,
		Unplaced:        make([]model.Animal, 0, len(outcome.Unplaced)),
	}
	for _, animal := range outcome.Unplaced {
		result.Unplaced = append(result.Unplaced, *animal)
	}

	for _, placement := range outcome.Placements {
		logger.Debug("Placed animal",
			zap.Int64("animal_id", placement.AnimalID),
			zap.Int64("enclosure_id", placement.EnclosureID),
			zap.Float64("space_requirement", placement.SpaceRequirement))
	}

	batch := buildBatch(outcome, opts.ResetAll)
	if batch.IsEmpty() {
		logger.Info("Auto-assignment made no changes",
			zap.Int("unplaced", len(result.Unplaced)))
		return result, nil
	}

	if opts.DryRun {
		logger.Info("Dry run, batch not committed",
			zap.Int("reassigned", result.ReassignedCount),
			zap.Int("animal_mutations", len(batch.Animals)),
			zap.Int("enclosure_mutations", len(batch.Enclosures)))
		return result, nil
	}

	logger.Debug("Committing batch",
		zap.String("batch_id", batch.ID),
		zap.Int("animal_mutations", len(batch.Animals)),
		zap.Int("enclosure_mutations", len(batch.Enclosures)))

	if err := store.CommitBatch(ctx, batch); err != nil {
		logger.Warn("Batch commit failed", zap.String("batch_id", batch.ID), zap.Error(err))
		return nil, assignmentFailed(err)
	}

	result.BatchID = batch.ID
	result.Committed = true

	logger.Info("Auto-assignment committed",
		zap.String("batch_id", batch.ID),
		zap.Int("reassigned", result.ReassignedCount),
		zap.Int("unplaced", len(result.Unplaced)))

	return result, nil
}

// buildBatch turns the changed animals and enclosures of an outcome into mutations
func buildBatch(outcome *allocator.AssignmentOutcome, resetAll bool) db.Batch {
	batch := db.Batch{
		ID:          uuid.New().String(),
		ResetAll:    resetAll,
		PlacedCount: outcome.PlacedCount(),
	}

	for _, animal := range outcome.State.ChangedAnimals() {
		batch.Animals = append(batch.Animals, db.AnimalMutation{
			AnimalID:        animal.ID,
			ExpectedVersion: animal.Version,
			EnclosureID:     animal.EnclosureID,
		})
	}

	for _, slot := range outcome.State.ChangedEnclosures() {
		batch.Enclosures = append(batch.Enclosures, db.EnclosureMutation{
			EnclosureID:       slot.Enclosure.ID,
			ExpectedVersion:   slot.Enclosure.Version,
			RemainingCapacity: slot.RemainingFloat(),
		})
	}

	return batch
}

func assignmentFailed(err error) error {
	return fmt.Errorf("assignment failed: %w", err)
}
