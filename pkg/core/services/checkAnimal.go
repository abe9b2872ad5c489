package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/evaluator"
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// CheckAnimalStore defines the database operations needed for checking an animal
type CheckAnimalStore interface {
	GetAnimal(ctx context.Context, id int64) (*model.Animal, error)
	GetEnclosure(ctx context.Context, id int64) (*model.Enclosure, error)
}

// AnimalReport is the compatibility of one animal with its current enclosure
type AnimalReport struct {
	AnimalID      int64
	AnimalName    string
	EnclosureName string
	Compatible    bool
	Issues        []evaluator.Issue
}

// CheckAnimal evaluates an animal against the enclosure it is housed in.
// An animal without an enclosure is reported with a single Unassigned issue.
func CheckAnimal(ctx context.Context, store CheckAnimalStore, logger *zap.Logger, animalID int64) (*AnimalReport, error) {
	logger.Debug("Checking animal", zap.Int64("animal_id", animalID))

	animal, err := store.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}

	var enclosure *model.Enclosure
	if animal.EnclosureID != nil {
		enclosure, err = store.GetEnclosure(ctx, *animal.EnclosureID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to get enclosure: %w", err)
		}
		if enclosure == nil {
			logger.Warn("Animal references a missing enclosure, treating as unassigned",
				zap.Int64("animal_id", animal.ID),
				zap.Int64("enclosure_id", *animal.EnclosureID))
		}
	}

	result := evaluator.Evaluate(animal, enclosure)

	report := &AnimalReport{
		AnimalID:   animal.ID,
		AnimalName: animal.Name,
		Compatible: result.Compatible,
		Issues:     result.Issues,
	}
	if enclosure != nil {
		report.EnclosureName = enclosure.Name
	}

	logger.Debug("Animal checked",
		zap.Int64("animal_id", animal.ID),
		zap.Bool("compatible", report.Compatible),
		zap.Int("issue_count", len(report.Issues)))

	return report, nil
}
