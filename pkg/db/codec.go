package db

import (
	"fmt"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// AnimalRow is the column layout of the animal table shared by the SQL stores.
// Enumerations are stored by name so the tables stay readable.
type AnimalRow struct {
	ID                  int64
	Name                string
	Species             string
	CategoryID          *int64
	Size                string
	DietaryClass        string
	ActivityPattern     string
	EnclosureID         *int64
	SpaceRequirement    float64
	SecurityRequirement string
	Version             int64
}

// NewAnimalRow encodes an animal for storage
func NewAnimalRow(a *model.Animal) AnimalRow {
	return AnimalRow{
		ID:                  a.ID,
		Name:                a.Name,
		Species:             a.Species,
		CategoryID:          a.CategoryID,
		Size:                a.Size.String(),
		DietaryClass:        a.DietaryClass.String(),
		ActivityPattern:     a.ActivityPattern.String(),
		EnclosureID:         a.EnclosureID,
		SpaceRequirement:    a.SpaceRequirement,
		SecurityRequirement: a.SecurityRequirement.String(),
		Version:             a.Version,
	}
}

// Animal decodes the row. Prey links live in their own table and are not set here.
func (r AnimalRow) Animal() (model.Animal, error) {
	a := model.Animal{
		ID:               r.ID,
		Name:             r.Name,
		Species:          r.Species,
		CategoryID:       r.CategoryID,
		EnclosureID:      r.EnclosureID,
		SpaceRequirement: r.SpaceRequirement,
		Version:          r.Version,
	}

	var err error
	if a.Size, err = model.ParseSizeClass(r.Size); err != nil {
		return a, fmt.Errorf("animal %d: %w", r.ID, err)
	}
	if a.DietaryClass, err = model.ParseDietaryClass(r.DietaryClass); err != nil {
		return a, fmt.Errorf("animal %d: %w", r.ID, err)
	}
	if a.ActivityPattern, err = model.ParseActivityPattern(r.ActivityPattern); err != nil {
		return a, fmt.Errorf("animal %d: %w", r.ID, err)
	}
	if a.SecurityRequirement, err = model.ParseSecurityLevel(r.SecurityRequirement); err != nil {
		return a, fmt.Errorf("animal %d: %w", r.ID, err)
	}
	return a, nil
}

// EnclosureRow is the column layout of the enclosure table shared by the SQL stores
type EnclosureRow struct {
	ID                  int64
	Name                string
	Climate             string
	HabitatType         int64
	DietaryRestrictions string
	SecurityLevel       string
	Size                float64
	RemainingCapacity   float64
	ZooID               *int64
	Version             int64
}

// NewEnclosureRow encodes an enclosure for storage
func NewEnclosureRow(e *model.Enclosure) EnclosureRow {
	return EnclosureRow{
		ID:                  e.ID,
		Name:                e.Name,
		Climate:             e.Climate.String(),
		HabitatType:         int64(e.HabitatType),
		DietaryRestrictions: e.DietaryRestrictions,
		SecurityLevel:       e.SecurityLevel.String(),
		Size:                e.Size,
		RemainingCapacity:   e.RemainingCapacity,
		ZooID:               e.ZooID,
		Version:             e.Version,
	}
}

// Enclosure decodes the row
func (r EnclosureRow) Enclosure() (model.Enclosure, error) {
	e := model.Enclosure{
		ID:                  r.ID,
		Name:                r.Name,
		HabitatType:         model.HabitatType(r.HabitatType),
		DietaryRestrictions: r.DietaryRestrictions,
		Size:                r.Size,
		RemainingCapacity:   r.RemainingCapacity,
		ZooID:               r.ZooID,
		Version:             r.Version,
	}

	var err error
	if e.Climate, err = model.ParseClimate(r.Climate); err != nil {
		return e, fmt.Errorf("enclosure %d: %w", r.ID, err)
	}
	if e.SecurityLevel, err = model.ParseSecurityLevel(r.SecurityLevel); err != nil {
		return e, fmt.Errorf("enclosure %d: %w", r.ID, err)
	}
	return e, nil
}

// AnimalFilterRow is an AnimalFilter encoded as SQL parameters. Nil pointers
// and empty strings disable their condition. Text is lowercased and trimmed.
type AnimalFilterRow struct {
	EnclosureID         *int64
	Unassigned          bool
	Name                string
	Species             string
	CategoryID          *int64
	Size                *string
	DietaryClass        *string
	ActivityPattern     *string
	SecurityRequirement *string
	MinSpace            *float64
	EnclosureName       string
	PreySpecies         string
}

// NewAnimalFilterRow encodes a filter for the SQL stores
func NewAnimalFilterRow(f AnimalFilter) AnimalFilterRow {
	return AnimalFilterRow{
		EnclosureID:         f.EnclosureID,
		Unassigned:          f.Unassigned,
		Name:                needle(f.Name),
		Species:             needle(f.Species),
		CategoryID:          f.CategoryID,
		Size:                enumName(f.Size),
		DietaryClass:        enumName(f.DietaryClass),
		ActivityPattern:     enumName(f.ActivityPattern),
		SecurityRequirement: enumName(f.SecurityRequirement),
		MinSpace:            f.MinSpace,
		EnclosureName:       needle(f.EnclosureName),
		PreySpecies:         needle(f.PreySpecies),
	}
}

func enumName[T fmt.Stringer](v *T) *string {
	if v == nil {
		return nil
	}
	name := (*v).String()
	return &name
}
