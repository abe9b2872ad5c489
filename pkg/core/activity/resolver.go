package activity

import (
	"fmt"
	"strings"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// DayNightEvent is the trigger that changes animal behaviour
type DayNightEvent int

const (
	Sunrise DayNightEvent = iota
	Sunset
)

func (e DayNightEvent) String() string {
	switch e {
	case Sunrise:
		return "sunrise"
	case Sunset:
		return "sunset"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}

// ParseDayNightEvent parses "sunrise" or "sunset" (case-insensitive)
func ParseDayNightEvent(value string) (DayNightEvent, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sunrise":
		return Sunrise, nil
	case "sunset":
		return Sunset, nil
	default:
		return 0, fmt.Errorf("unknown day/night trigger %q (expected sunrise or sunset)", value)
	}
}

// State is the behavioural state of an animal
type State string

const (
	StateAwake   State = "Awake"
	StateAsleep  State = "Asleep"
	StateActive  State = "Active"
	StateUnknown State = "Unknown"
)

// Resolve returns the state of an animal with the given activity pattern after the trigger.
// Out-of-range patterns or triggers resolve to StateUnknown.
func Resolve(pattern model.ActivityPattern, trigger DayNightEvent) State {
	if trigger != Sunrise && trigger != Sunset {
		return StateUnknown
	}

	switch pattern {
	case model.Diurnal:
		if trigger == Sunrise {
			return StateAwake
		}
		return StateAsleep
	case model.Nocturnal:
		if trigger == Sunrise {
			return StateAsleep
		}
		return StateAwake
	case model.Cathemeral:
		return StateActive
	default:
		return StateUnknown
	}
}
