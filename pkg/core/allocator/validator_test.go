package allocator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

func TestValidateCoreInvariants_NegativeRemaining(t *testing.T) {
	state, err := InitAssignmentState(InitAssignmentInput{
		Enclosures: []model.Enclosure{enclosure(1, 10)},
	})
	require.NoError(t, err)

	state.Slot(1).Remaining = decimal.NewFromInt(-5)

	errors := validateCoreInvariants(state)
	require.Len(t, errors, 1)
	assert.Equal(t, int64(1), errors[0].EnclosureID)
	assert.Contains(t, errors[0].Description, "negative remaining capacity")
}

func TestValidateCoreInvariants_OccupantMismatch(t *testing.T) {
	state, err := InitAssignmentState(InitAssignmentInput{
		Animals:    []model.Animal{animal(1, 10)},
		Enclosures: []model.Enclosure{enclosure(1, 10)},
	})
	require.NoError(t, err)

	state.Slot(1).OccupantIDs = []int64{1}

	errors := validateCoreInvariants(state)
	require.Len(t, errors, 1)
	assert.Equal(t, int64(1), errors[0].AnimalID)
}

func TestValidateCoreInvariants_DuplicateOccupant(t *testing.T) {
	a := animal(1, 1)
	a.EnclosureID = model.ID(1)
	state, err := InitAssignmentState(InitAssignmentInput{
		Animals:    []model.Animal{a},
		Enclosures: []model.Enclosure{enclosure(1, 10)},
	})
	require.NoError(t, err)

	state.Slot(1).OccupantIDs = []int64{1, 1}

	errors := validateCoreInvariants(state)
	require.Len(t, errors, 1)
	assert.Contains(t, errors[0].Description, "listed twice")
}

func TestValidateCoreInvariants_UnappliedPlacement(t *testing.T) {
	state, err := InitAssignmentState(InitAssignmentInput{
		Animals:    []model.Animal{animal(1, 1)},
		Enclosures: []model.Enclosure{enclosure(1, 10)},
	})
	require.NoError(t, err)

	state.Placements = append(state.Placements, Placement{AnimalID: 1, EnclosureID: 1})

	errors := validateCoreInvariants(state)
	require.Len(t, errors, 1)
	assert.Contains(t, errors[0].Description, "not applied")
}

func TestValidateAssignmentState_AllValid(t *testing.T) {
	a := animal(1, 5)
	a.EnclosureID = model.ID(1)
	state, err := InitAssignmentState(InitAssignmentInput{
		Animals:    []model.Animal{a, animal(2, 1)},
		Enclosures: []model.Enclosure{enclosure(1, 10)},
	})
	require.NoError(t, err)

	assert.Empty(t, ValidateAssignmentState(state, []Criterion{fitsCriterion{}}))
}
