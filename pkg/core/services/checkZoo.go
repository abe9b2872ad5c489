package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/evaluator"
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// CheckZooStore defines the database operations needed for checking a zoo
type CheckZooStore interface {
	GetZoo(ctx context.Context, id int64) (*model.Zoo, error)
	ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error)
	ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error)
}

// ZooReport lists every issue found across the checked enclosures.
// An empty Issues slice means full compliance.
type ZooReport struct {
	EnclosureCount int
	AnimalCount    int
	Issues         []evaluator.Finding
}

// Compliant reports whether no issues were found
func (r *ZooReport) Compliant() bool {
	return len(r.Issues) == 0
}

// CheckZoo audits every enclosure in order of ID. When zooID is set only the
// enclosures of that zoo are checked.
func CheckZoo(ctx context.Context, store CheckZooStore, logger *zap.Logger, zooID *int64) (*ZooReport, error) {
	filter := db.EnclosureFilter{}
	if zooID != nil {
		logger.Debug("Checking zoo", zap.Int64("zoo_id", *zooID))
		if _, err := store.GetZoo(ctx, *zooID); err != nil {
			return nil, fmt.Errorf("failed to get zoo: %w", err)
		}
		filter.ZooID = zooID
	} else {
		logger.Debug("Checking all enclosures")
	}

	enclosures, err := store.ListEnclosures(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list enclosures: %w", err)
	}

	animals, err := store.ListAnimals(ctx, db.AnimalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	findings := evaluator.AuditZoo(enclosures, animals)

	housed := 0
	for i := range animals {
		for j := range enclosures {
			if animals[i].InEnclosure(enclosures[j].ID) {
				housed++
				break
			}
		}
	}

	logger.Debug("Zoo checked",
		zap.Int("enclosure_count", len(enclosures)),
		zap.Int("animal_count", housed),
		zap.Int("issue_count", len(findings)))

	return &ZooReport{
		EnclosureCount: len(enclosures),
		AnimalCount:    housed,
		Issues:         findings,
	}, nil
}
