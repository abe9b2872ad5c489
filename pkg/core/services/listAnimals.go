package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// ListAnimalsStore defines the database operations needed for searching animals
type ListAnimalsStore interface {
	ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error)
	ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error)
}

// AnimalSummary is one row of the animal search
type AnimalSummary struct {
	Animal model.Animal

	// EnclosureName is empty for unassigned animals
	EnclosureName string
}

// ListAnimals returns the animals matching the filter, ordered by ID
func ListAnimals(ctx context.Context, store ListAnimalsStore, logger *zap.Logger, filter db.AnimalFilter) ([]AnimalSummary, error) {
	animals, err := store.ListAnimals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	enclosures, err := store.ListEnclosures(ctx, db.EnclosureFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list enclosures: %w", err)
	}
	names := make(map[int64]string, len(enclosures))
	for _, e := range enclosures {
		names[e.ID] = e.Name
	}

	summaries := make([]AnimalSummary, 0, len(animals))
	for _, a := range animals {
		summary := AnimalSummary{Animal: a}
		if a.EnclosureID != nil {
			summary.EnclosureName = names[*a.EnclosureID]
		}
		summaries = append(summaries, summary)
	}

	logger.Debug("Listed animals", zap.Int("count", len(summaries)))

	return summaries, nil
}
