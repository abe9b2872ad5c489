package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// ListEnclosuresStore defines the database operations needed for listing enclosures
type ListEnclosuresStore interface {
	ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error)
	ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error)
}

// EnclosureSummary is one row of the enclosure listing
type EnclosureSummary struct {
	Enclosure     model.Enclosure
	OccupantCount int
	OccupiedSpace float64

	// Remaining is the rated size less the space of current occupants, clamped at 0
	Remaining float64

	Restrictions []model.DietaryClass
}

// ListEnclosures returns every enclosure ordered by ID with its occupancy
func ListEnclosures(ctx context.Context, store ListEnclosuresStore, logger *zap.Logger) ([]EnclosureSummary, error) {
	enclosures, err := store.ListEnclosures(ctx, db.EnclosureFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list enclosures: %w", err)
	}

	animals, err := store.ListAnimals(ctx, db.AnimalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	summaries := make([]EnclosureSummary, 0, len(enclosures))
	for _, enclosure := range enclosures {
		summary := EnclosureSummary{Enclosure: enclosure, Restrictions: enclosure.Restrictions()}
		for i := range animals {
			if animals[i].InEnclosure(enclosure.ID) {
				summary.OccupantCount++
				summary.OccupiedSpace += animals[i].SpaceRequirement
			}
		}
		summary.Remaining = max(enclosure.Size-summary.OccupiedSpace, 0)
		summaries = append(summaries, summary)
	}

	logger.Debug("Listed enclosures", zap.Int("count", len(summaries)))

	return summaries, nil
}
