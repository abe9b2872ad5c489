package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/activity"
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
	"github.com/jakechorley/zoo-enclosures/pkg/suncalc"
)

func activityZoo(t *testing.T) *testZoo {
	tz := newTestZoo(t)
	savanna := tz.addEnclosure(t, model.Enclosure{Name: "Savanna", Size: 500})
	tz.addAnimal(t, model.Animal{Name: "Leo", ActivityPattern: model.Nocturnal, SpaceRequirement: 40, EnclosureID: model.ID(savanna)})
	tz.addAnimal(t, model.Animal{Name: "Dumbo", ActivityPattern: model.Diurnal, SpaceRequirement: 50, EnclosureID: model.ID(savanna)})
	tz.addAnimal(t, model.Animal{Name: "Snappy", ActivityPattern: model.Cathemeral, SpaceRequirement: 30})
	return tz
}

func TestDayNightEvent_ZooSunrise(t *testing.T) {
	tz := activityZoo(t)

	lines, err := DayNightEvent(context.Background(), tz.store, zap.NewNop(), activity.Sunrise, ScopeRequest{Scope: ScopeZoo})
	require.NoError(t, err)

	require.Len(t, lines, 3)
	assert.Equal(t, "Leo", lines[0].Name)
	assert.Equal(t, activity.StateAsleep, lines[0].State)
	assert.Equal(t, "Savanna", lines[0].EnclosureName)
	assert.Equal(t, "Dumbo", lines[1].Name)
	assert.Equal(t, activity.StateAwake, lines[1].State)
	assert.Equal(t, "Snappy", lines[2].Name)
	assert.Equal(t, activity.StateActive, lines[2].State)
	assert.Empty(t, lines[2].EnclosureName)
}

func TestDayNightEvent_ZooScopeWithIDSkipsUnhoused(t *testing.T) {
	tz := activityZoo(t)

	lines, err := DayNightEvent(context.Background(), tz.store, zap.NewNop(), activity.Sunset, ScopeRequest{Scope: ScopeZoo, ID: model.ID(tz.zooID)})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, activity.StateAwake, lines[0].State)
	assert.Equal(t, activity.StateAsleep, lines[1].State)
}

func TestDayNightEvent_EnclosureScope(t *testing.T) {
	tz := activityZoo(t)

	lines, err := DayNightEvent(context.Background(), tz.store, zap.NewNop(), activity.Sunset, ScopeRequest{Scope: ScopeEnclosure, ID: model.ID(tz.enclosures["Savanna"])})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "Leo", lines[0].Name)
	assert.Equal(t, "Dumbo", lines[1].Name)
}

func TestDayNightEvent_AnimalScope(t *testing.T) {
	tz := activityZoo(t)

	lines, err := DayNightEvent(context.Background(), tz.store, zap.NewNop(), activity.Sunset, ScopeRequest{Scope: ScopeAnimal, ID: model.ID(tz.animals["Snappy"])})
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, activity.StateActive, lines[0].State)
}

func TestDayNightEvent_NotFound(t *testing.T) {
	tz := activityZoo(t)

	tests := []ScopeRequest{
		{Scope: ScopeAnimal, ID: model.ID(999)},
		{Scope: ScopeEnclosure, ID: model.ID(999)},
		{Scope: ScopeZoo, ID: model.ID(999)},
	}
	for _, req := range tests {
		t.Run(req.Scope.String(), func(t *testing.T) {
			_, err := DayNightEvent(context.Background(), tz.store, zap.NewNop(), activity.Sunrise, req)
			assert.ErrorIs(t, err, db.ErrNotFound)
		})
	}
}

func TestDayNightEvent_MissingID(t *testing.T) {
	tz := activityZoo(t)

	_, err := DayNightEvent(context.Background(), tz.store, zap.NewNop(), activity.Sunrise, ScopeRequest{Scope: ScopeAnimal})
	assert.ErrorContains(t, err, "requires an animal ID")
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		input    string
		expected Scope
		wantErr  bool
	}{
		{"zoo", ScopeZoo, false},
		{"Enclosure", ScopeEnclosure, false},
		{" ANIMAL ", ScopeAnimal, false},
		{"cage", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			scope, err := ParseScope(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, scope)
		})
	}
}

func TestResolveTrigger(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	sun := suncalc.NewSunCalc(52.3676, 4.9041, loc)

	trigger, err := ResolveTrigger("sunset", nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, activity.Sunset, trigger)

	noon := time.Date(2024, 6, 21, 12, 0, 0, 0, loc)
	trigger, err = ResolveTrigger("now", sun, noon)
	require.NoError(t, err)
	assert.Equal(t, activity.Sunrise, trigger)

	midnight := time.Date(2024, 6, 21, 0, 30, 0, 0, loc)
	trigger, err = ResolveTrigger("NOW", sun, midnight)
	require.NoError(t, err)
	assert.Equal(t, activity.Sunset, trigger)

	_, err = ResolveTrigger("now", nil, noon)
	assert.Error(t, err)

	_, err = ResolveTrigger("dusk", sun, noon)
	assert.Error(t, err)
}
