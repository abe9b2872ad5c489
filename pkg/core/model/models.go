package model

import (
	"slices"
	"strings"
)

// Animal represents an animal kept at the zoo.
// Relationships to other entities are by ID only.
type Animal struct {
	ID                  int64
	Name                string
	Species             string
	CategoryID          *int64
	Size                SizeClass
	DietaryClass        DietaryClass
	ActivityPattern     ActivityPattern
	EnclosureID         *int64 // nil means unassigned
	SpaceRequirement    float64
	SecurityRequirement SecurityLevel

	// PreyIDs are the animals this animal eats. Never contains ID itself.
	PreyIDs []int64

	// Version is bumped by the store on every committed change
	Version int64
}

// IsAssigned returns true if the animal is housed in an enclosure
func (a *Animal) IsAssigned() bool {
	return a.EnclosureID != nil
}

// InEnclosure returns true if the animal is housed in the given enclosure
func (a *Animal) InEnclosure(enclosureID int64) bool {
	return a.EnclosureID != nil && *a.EnclosureID == enclosureID
}

// Clone returns a deep copy of the animal
func (a Animal) Clone() Animal {
	a.CategoryID = cloneID(a.CategoryID)
	a.EnclosureID = cloneID(a.EnclosureID)
	a.PreyIDs = slices.Clone(a.PreyIDs)
	return a
}

// Enclosure represents a physical enclosure animals can be housed in
type Enclosure struct {
	ID          int64
	Name        string
	Climate     Climate
	HabitatType HabitatType

	// DietaryRestrictions is the stored restriction text, e.g. "Carnivore, Piscivore"
	DietaryRestrictions string

	SecurityLevel SecurityLevel

	// Size is the rated area of the enclosure. It is never changed by assignment.
	Size float64

	// RemainingCapacity is the free area left. Assignment and housing an animal write it.
	RemainingCapacity float64

	ZooID   *int64
	Version int64
}

// Restrictions returns the dietary classes forbidden in this enclosure
func (e *Enclosure) Restrictions() []DietaryClass {
	return ParseDietaryRestrictions(e.DietaryRestrictions)
}

// Forbids reports whether the given dietary class is restricted in this enclosure
func (e *Enclosure) Forbids(diet DietaryClass) bool {
	return slices.Contains(restrictionTokens(e.DietaryRestrictions), diet.String())
}

// Clone returns a deep copy of the enclosure
func (e Enclosure) Clone() Enclosure {
	e.ZooID = cloneID(e.ZooID)
	return e
}

// Category groups animals for display purposes only
type Category struct {
	ID   int64
	Name string
}

// Zoo owns enclosures
type Zoo struct {
	ID   int64
	Name string
}

// ParseDietaryRestrictions parses stored restriction text into dietary classes.
// Tokens are separated by commas, semicolons or whitespace and matched case-sensitively.
// Unknown tokens are ignored. Each class appears at most once, in order of first appearance.
func ParseDietaryRestrictions(text string) []DietaryClass {
	var result []DietaryClass
	for _, token := range restrictionTokens(text) {
		diet, err := ParseDietaryClass(token)
		if err != nil {
			continue
		}
		if !slices.Contains(result, diet) {
			result = append(result, diet)
		}
	}
	return result
}

// FormatDietaryRestrictions renders dietary classes as restriction text
func FormatDietaryRestrictions(diets []DietaryClass) string {
	names := make([]string, 0, len(diets))
	for _, d := range diets {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

func restrictionTokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// ID returns a pointer to the given id, for optional references
func ID(id int64) *int64 {
	return &id
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
