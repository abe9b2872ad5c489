package suncalc

import (
	"fmt"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/jakechorley/zoo-enclosures/pkg/core/activity"
)

// SunTimes holds sunrise and sunset for one day, in the zoo's local time
type SunTimes struct {
	Sunrise time.Time
	Sunset  time.Time
}

// SunCalc calculates and caches sun event times for the zoo location
type SunCalc struct {
	observer astral.Observer
	location *time.Location

	lock  sync.RWMutex
	cache map[string]SunTimes
}

// NewSunCalc creates a SunCalc for the given coordinates.
// Times are reported in loc; nil means UTC.
func NewSunCalc(latitude, longitude float64, loc *time.Location) *SunCalc {
	if loc == nil {
		loc = time.UTC
	}
	return &SunCalc{
		observer: astral.Observer{Latitude: latitude, Longitude: longitude},
		location: loc,
		cache:    make(map[string]SunTimes),
	}
}

// GetSunTimes returns sunrise and sunset for the local calendar day of date
func (sc *SunCalc) GetSunTimes(date time.Time) (SunTimes, error) {
	local := date.In(sc.location)
	dateKey := local.Format("2006-01-02")

	sc.lock.RLock()
	times, ok := sc.cache[dateKey]
	sc.lock.RUnlock()
	if ok {
		return times, nil
	}

	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	sunrise, err := astral.Sunrise(sc.observer, day)
	if err != nil {
		return SunTimes{}, fmt.Errorf("failed to calculate sunrise for %s: %w", dateKey, err)
	}
	sunset, err := astral.Sunset(sc.observer, day)
	if err != nil {
		return SunTimes{}, fmt.Errorf("failed to calculate sunset for %s: %w", dateKey, err)
	}

	times = SunTimes{
		Sunrise: sunrise.In(sc.location),
		Sunset:  sunset.In(sc.location),
	}

	sc.lock.Lock()
	sc.cache[dateKey] = times
	sc.lock.Unlock()

	return times, nil
}

// CurrentEvent returns the most recent day/night trigger at the given moment:
// Sunrise between sunrise and sunset, Sunset otherwise.
func (sc *SunCalc) CurrentEvent(now time.Time) (activity.DayNightEvent, error) {
	times, err := sc.GetSunTimes(now)
	if err != nil {
		return 0, err
	}

	if !now.Before(times.Sunrise) && now.Before(times.Sunset) {
		return activity.Sunrise, nil
	}
	return activity.Sunset, nil
}
