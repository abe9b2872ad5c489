package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

func TestAnimalFilterFromFlags(t *testing.T) {
	large := model.SizeLarge
	carnivore := model.DietCarnivore
	nocturnal := model.Nocturnal
	high := model.SecurityHigh
	zero := 0.0

	tests := []struct {
		name     string
		args     []string
		expected db.AnimalFilter
	}{
		{"no flags", nil, db.AnimalFilter{}},
		{"text filters", []string{"--name", "leo", "--species", "Lion", "--enclosure", "sav", "--prey-species", "zebra"},
			db.AnimalFilter{Name: "leo", Species: "Lion", EnclosureName: "sav", PreySpecies: "zebra"}},
		{"enumerations", []string{"--size", "Large", "--diet", " Carnivore ", "--activity", "Nocturnal", "--security", "High"},
			db.AnimalFilter{Size: &large, DietaryClass: &carnivore, ActivityPattern: &nocturnal, SecurityRequirement: &high}},
		{"category and unassigned", []string{"--category", "3", "--unassigned"},
			db.AnimalFilter{CategoryID: model.ID(3), Unassigned: true}},
		{"explicit zero min space still filters", []string{"--min-space", "0"},
			db.AnimalFilter{MinSpace: &zero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ListAnimalsCmd(&AppContext{})
			require.NoError(t, cmd.ParseFlags(tt.args))

			filter, err := animalFilterFromFlags(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, filter)
		})
	}
}

func TestAnimalFilterFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown size", []string{"--size", "Gigantic"}, "invalid --size"},
		{"unknown diet", []string{"--diet", "Vegan"}, "invalid --diet"},
		{"non-positive category", []string{"--category", "0"}, "category id must be a positive integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ListAnimalsCmd(&AppContext{})
			require.NoError(t, cmd.ParseFlags(tt.args))

			_, err := animalFilterFromFlags(cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestListAnimalsCmd_RunsAgainstSeededZoo(t *testing.T) {
	app := newSeededApp(t)
	cmd := ListAnimalsCmd(app)
	cmd.SetArgs([]string{"--unassigned"})
	assert.NoError(t, cmd.Execute())
}

func TestListEnclosuresCmd_RunsAgainstSeededZoo(t *testing.T) {
	app := newSeededApp(t)
	cmd := ListEnclosuresCmd(app)
	cmd.SetArgs([]string{})
	assert.NoError(t, cmd.Execute())
}
