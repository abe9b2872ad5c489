package model

import (
	"fmt"
	"strings"
)

// SizeClass is the physical size of an animal, ordered smallest to largest
type SizeClass int

const (
	SizeMicroscopic SizeClass = iota
	SizeVerySmall
	SizeSmall
	SizeMedium
	SizeLarge
	SizeVeryLarge
)

var sizeClassNames = []string{"Microscopic", "VerySmall", "Small", "Medium", "Large", "VeryLarge"}

func (s SizeClass) String() string {
	return enumName(sizeClassNames, int(s))
}

// ParseSizeClass parses the name of a SizeClass (exact match)
func ParseSizeClass(name string) (SizeClass, error) {
	idx, err := parseEnum("size", sizeClassNames, name)
	return SizeClass(idx), err
}

// DietaryClass is what an animal eats
type DietaryClass int

const (
	DietCarnivore DietaryClass = iota
	DietHerbivore
	DietOmnivore
	DietInsectivore
	DietPiscivore
)

var dietaryClassNames = []string{"Carnivore", "Herbivore", "Omnivore", "Insectivore", "Piscivore"}

func (d DietaryClass) String() string {
	return enumName(dietaryClassNames, int(d))
}

// ParseDietaryClass parses the name of a DietaryClass (exact match)
func ParseDietaryClass(name string) (DietaryClass, error) {
	idx, err := parseEnum("dietary class", dietaryClassNames, name)
	return DietaryClass(idx), err
}

// ActivityPattern describes when an animal is awake
type ActivityPattern int

const (
	Diurnal ActivityPattern = iota
	Nocturnal
	Cathemeral
)

var activityPatternNames = []string{"Diurnal", "Nocturnal", "Cathemeral"}

func (a ActivityPattern) String() string {
	return enumName(activityPatternNames, int(a))
}

// ParseActivityPattern parses the name of an ActivityPattern (exact match)
func ParseActivityPattern(name string) (ActivityPattern, error) {
	idx, err := parseEnum("activity pattern", activityPatternNames, name)
	return ActivityPattern(idx), err
}

// SecurityLevel is ordinal: Low < Medium < High.
// Used both for what an enclosure provides and what an animal requires.
type SecurityLevel int

const (
	SecurityLow SecurityLevel = iota
	SecurityMedium
	SecurityHigh
)

var securityLevelNames = []string{"Low", "Medium", "High"}

func (s SecurityLevel) String() string {
	return enumName(securityLevelNames, int(s))
}

// ParseSecurityLevel parses the name of a SecurityLevel (exact match)
func ParseSecurityLevel(name string) (SecurityLevel, error) {
	idx, err := parseEnum("security level", securityLevelNames, name)
	return SecurityLevel(idx), err
}

// Climate of an enclosure
type Climate int

const (
	ClimateTropical Climate = iota
	ClimateTemperate
	ClimateArctic
)

var climateNames = []string{"Tropical", "Temperate", "Arctic"}

func (c Climate) String() string {
	return enumName(climateNames, int(c))
}

// ParseClimate parses the name of a Climate (exact match)
func ParseClimate(name string) (Climate, error) {
	idx, err := parseEnum("climate", climateNames, name)
	return Climate(idx), err
}

// HabitatType is a set of habitat flags; an enclosure can combine several
type HabitatType uint8

const (
	HabitatNone   HabitatType = 0
	HabitatForest HabitatType = 1 << (iota - 1)
	HabitatAquatic
	HabitatDesert
	HabitatGrassland
)

var habitatFlags = []struct {
	flag HabitatType
	name string
}{
	{HabitatForest, "Forest"},
	{HabitatAquatic, "Aquatic"},
	{HabitatDesert, "Desert"},
	{HabitatGrassland, "Grassland"},
}

// Has reports whether all flags in other are set
func (h HabitatType) Has(other HabitatType) bool {
	return h&other == other
}

func (h HabitatType) String() string {
	if h == HabitatNone {
		return "None"
	}
	var names []string
	for _, hf := range habitatFlags {
		if h.Has(hf.flag) {
			names = append(names, hf.name)
		}
	}
	return strings.Join(names, ", ")
}

// ParseHabitatType parses a comma separated list of habitat names, e.g. "Forest, Aquatic"
func ParseHabitatType(value string) (HabitatType, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "None" {
		return HabitatNone, nil
	}

	var result HabitatType
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		found := false
		for _, hf := range habitatFlags {
			if hf.name == part {
				result |= hf.flag
				found = true
				break
			}
		}
		if !found {
			return HabitatNone, fmt.Errorf("unknown habitat type %q", part)
		}
	}
	return result, nil
}

func enumName(names []string, idx int) string {
	if idx < 0 || idx >= len(names) {
		return fmt.Sprintf("Unknown(%d)", idx)
	}
	return names[idx]
}

func parseEnum(kind string, names []string, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (expected one of %s)", kind, name, strings.Join(names, ", "))
}
