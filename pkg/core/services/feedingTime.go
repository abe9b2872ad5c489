package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/internal/config"
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// FeedingLine is what one animal eats and when it is next fed
type FeedingLine struct {
	AnimalID      int64
	AnimalName    string
	EnclosureName string
	Food          string

	// NextFeeding is nil when no schedule applies to the animal's enclosure
	NextFeeding *time.Time
}

// FeedingTime reports the food and next feeding time of every animal in scope.
// Animals with prey eat their prey; the rest eat according to their dietary class.
func FeedingTime(ctx context.Context, store ScopedStore, logger *zap.Logger, cfg *config.Config, req ScopeRequest, now time.Time) ([]FeedingLine, error) {
	logger.Debug("Building feeding report",
		zap.String("scope", req.Scope.String()),
		zap.Time("now", now))

	animals, enclosures, err := scopedAnimals(ctx, store, req)
	if err != nil {
		return nil, err
	}

	// Prey may live outside the scope, so look names up across the whole zoo
	allAnimals, err := store.ListAnimals(ctx, db.AnimalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	names := make(map[int64]string, len(allAnimals))
	for _, animal := range allAnimals {
		names[animal.ID] = animal.Name
	}

	loc := time.UTC
	if cfg != nil {
		loc = cfg.TimeLocation()
	}

	lines := make([]FeedingLine, 0, len(animals))
	for i := range animals {
		animal := &animals[i]
		line := FeedingLine{
			AnimalID:      animal.ID,
			AnimalName:    animal.Name,
			EnclosureName: enclosureName(animal, enclosures),
			Food:          foodFor(animal, names),
		}

		if cfg != nil && line.EnclosureName != "" {
			if schedule := cfg.ScheduleFor(line.EnclosureName); schedule != nil {
				next, err := NextFeeding(schedule.RRule, now, loc)
				if err != nil {
					return nil, fmt.Errorf("failed to compute feeding time for %s: %w", line.EnclosureName, err)
				}
				line.NextFeeding = next
			}
		}

		lines = append(lines, line)
	}

	logger.Debug("Feeding report built", zap.Int("animal_count", len(lines)))

	return lines, nil
}

// NextFeeding returns the first occurrence of the rrule strictly after now.
// The rule is anchored at the start of the local day, so BYHOUR rules repeat daily.
// Returns nil when the rule has no further occurrences.
func NextFeeding(ruleText string, now time.Time, loc *time.Location) (*time.Time, error) {
	rule, err := rrule.StrToRRule(ruleText)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule: %w", err)
	}

	local := now.In(loc)
	rule.DTStart(time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc))

	next := rule.After(local, false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// foodFor describes what an animal is fed
func foodFor(animal *model.Animal, names map[int64]string) string {
	if len(animal.PreyIDs) == 0 {
		return fmt.Sprintf("%s diet", animal.DietaryClass)
	}

	ids := slices.Clone(animal.PreyIDs)
	slices.Sort(ids)

	prey := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			prey = append(prey, name)
		}
	}
	if len(prey) == 0 {
		return fmt.Sprintf("%s diet", animal.DietaryClass)
	}
	return strings.Join(prey, ", ")
}
