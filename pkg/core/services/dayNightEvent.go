package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/activity"
	"github.com/jakechorley/zoo-enclosures/pkg/suncalc"
)

// ActivityLine is the state of one animal after a day/night event
type ActivityLine struct {
	AnimalID      int64
	Name          string
	EnclosureName string
	State         activity.State
}

// DayNightEvent resolves the behavioural state of every animal in scope, ordered by animal ID
func DayNightEvent(ctx context.Context, store ScopedStore, logger *zap.Logger, trigger activity.DayNightEvent, req ScopeRequest) ([]ActivityLine, error) {
	logger.Debug("Resolving day/night event",
		zap.String("trigger", trigger.String()),
		zap.String("scope", req.Scope.String()))

	animals, enclosures, err := scopedAnimals(ctx, store, req)
	if err != nil {
		return nil, err
	}

	lines := make([]ActivityLine, 0, len(animals))
	for i := range animals {
		animal := &animals[i]
		lines = append(lines, ActivityLine{
			AnimalID:      animal.ID,
			Name:          animal.Name,
			EnclosureName: enclosureName(animal, enclosures),
			State:         activity.Resolve(animal.ActivityPattern, trigger),
		})
	}

	logger.Debug("Day/night event resolved", zap.Int("animal_count", len(lines)))

	return lines, nil
}

// ResolveTrigger parses "sunrise" or "sunset". "now" picks whichever event last
// happened at the zoo's location.
func ResolveTrigger(value string, sun *suncalc.SunCalc, now time.Time) (activity.DayNightEvent, error) {
	if strings.EqualFold(strings.TrimSpace(value), "now") {
		if sun == nil {
			return 0, fmt.Errorf("trigger \"now\" needs a configured location")
		}
		return sun.CurrentEvent(now)
	}
	return activity.ParseDayNightEvent(value)
}
