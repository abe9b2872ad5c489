package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/evaluator"
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// CheckEnclosureStore defines the database operations needed for checking an enclosure
type CheckEnclosureStore interface {
	GetEnclosure(ctx context.Context, id int64) (*model.Enclosure, error)
	ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error)
}

// EnclosureReport lists every issue of the animals housed in one enclosure
type EnclosureReport struct {
	EnclosureID   int64
	EnclosureName string
	Issues        []evaluator.Finding
}

// CheckEnclosure evaluates every animal currently in the enclosure
func CheckEnclosure(ctx context.Context, store CheckEnclosureStore, logger *zap.Logger, enclosureID int64) (*EnclosureReport, error) {
	logger.Debug("Checking enclosure", zap.Int64("enclosure_id", enclosureID))

	enclosure, err := store.GetEnclosure(ctx, enclosureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enclosure: %w", err)
	}

	animals, err := store.ListAnimals(ctx, db.AnimalFilter{EnclosureID: &enclosure.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	logger.Debug("Found animals in enclosure",
		zap.Int64("enclosure_id", enclosure.ID),
		zap.Int("count", len(animals)))

	findings := evaluator.AuditEnclosure(enclosure, animals)

	logger.Debug("Enclosure checked",
		zap.Int64("enclosure_id", enclosure.ID),
		zap.Int("issue_count", len(findings)))

	return &EnclosureReport{
		EnclosureID:   enclosure.ID,
		EnclosureName: enclosure.Name,
		Issues:        findings,
	}, nil
}
