package allocator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// fitsCriterion is a minimal capacity check for tests in this package
type fitsCriterion struct{}

func (fitsCriterion) Name() string { return "Fits" }

func (fitsCriterion) IsEnclosureValid(state *AssignmentState, animal *model.Animal, slot *EnclosureSlot) bool {
	return slot.CanFit(animal.SpaceRequirement)
}

func (fitsCriterion) ValidateState(state *AssignmentState) []ValidationError { return nil }

// vetoCriterion rejects one enclosure
type vetoCriterion struct {
	enclosureID int64
}

func (c vetoCriterion) Name() string { return "Veto" }

func (c vetoCriterion) IsEnclosureValid(state *AssignmentState, animal *model.Animal, slot *EnclosureSlot) bool {
	return slot.Enclosure.ID != c.enclosureID
}

func (c vetoCriterion) ValidateState(state *AssignmentState) []ValidationError { return nil }

func enclosure(id int64, size float64) model.Enclosure {
	return model.Enclosure{ID: id, Name: "E", Size: size, RemainingCapacity: size, SecurityLevel: model.SecurityHigh}
}

func animal(id int64, space float64) model.Animal {
	return model.Animal{ID: id, Name: "A", SpaceRequirement: space}
}

func TestAssign_FirstFitInIDOrder(t *testing.T) {
	config := AssignmentConfig{
		Criteria:   []Criterion{fitsCriterion{}},
		Animals:    []model.Animal{animal(2, 30), animal(1, 80)},
		Enclosures: []model.Enclosure{enclosure(20, 100), enclosure(10, 100)},
	}

	outcome, err := Assign(context.Background(), config)
	require.NoError(t, err)

	require.Len(t, outcome.Placements, 2)
	// Animal 1 goes first into enclosure 10, animal 2 no longer fits there
	assert.Equal(t, int64(1), outcome.Placements[0].AnimalID)
	assert.Equal(t, int64(10), outcome.Placements[0].EnclosureID)
	assert.Equal(t, int64(2), outcome.Placements[1].AnimalID)
	assert.Equal(t, int64(20), outcome.Placements[1].EnclosureID)

	assert.Equal(t, 20.0, outcome.State.Slot(10).RemainingFloat())
	assert.Equal(t, 70.0, outcome.State.Slot(20).RemainingFloat())
	assert.Empty(t, outcome.Unplaced)
	assert.True(t, outcome.Valid())
}

func TestAssign_UnplacedWhenNothingFits(t *testing.T) {
	config := AssignmentConfig{
		Criteria:   []Criterion{fitsCriterion{}},
		Animals:    []model.Animal{animal(1, 40), animal(2, 70)},
		Enclosures: []model.Enclosure{enclosure(1, 100)},
	}

	outcome, err := Assign(context.Background(), config)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.PlacedCount())
	require.Len(t, outcome.Unplaced, 1)
	assert.Equal(t, int64(2), outcome.Unplaced[0].ID)
	assert.Equal(t, 60.0, outcome.State.Slot(1).RemainingFloat())
}

func TestAssign_CriterionVetoSkipsEnclosure(t *testing.T) {
	config := AssignmentConfig{
		Criteria:   []Criterion{fitsCriterion{}, vetoCriterion{enclosureID: 1}},
		Animals:    []model.Animal{animal(1, 10)},
		Enclosures: []model.Enclosure{enclosure(1, 100), enclosure(2, 100)},
	}

	outcome, err := Assign(context.Background(), config)
	require.NoError(t, err)

	require.Len(t, outcome.Placements, 1)
	assert.Equal(t, int64(2), outcome.Placements[0].EnclosureID)
}

func TestAssign_AssignedAnimalsUntouchedWithoutReset(t *testing.T) {
	housed := animal(1, 30)
	housed.EnclosureID = model.ID(1)

	config := AssignmentConfig{
		Criteria:   []Criterion{fitsCriterion{}},
		Animals:    []model.Animal{housed, animal(2, 50)},
		Enclosures: []model.Enclosure{enclosure(1, 100)},
	}

	outcome, err := Assign(context.Background(), config)
	require.NoError(t, err)

	require.Len(t, outcome.Placements, 1)
	assert.Equal(t, int64(2), outcome.Placements[0].AnimalID)
	assert.Empty(t, outcome.State.Cleared)
	// 100 - 30 already housed - 50 placed
	assert.Equal(t, 20.0, outcome.State.Slot(1).RemainingFloat())

	changed := outcome.State.ChangedAnimals()
	require.Len(t, changed, 1)
	assert.Equal(t, int64(2), changed[0].ID)
}

func TestAssign_ResetAllClearsAndRestoresCapacity(t *testing.T) {
	housed := animal(1, 90)
	housed.EnclosureID = model.ID(2)

	full := enclosure(2, 100)
	full.RemainingCapacity = 10

	config := AssignmentConfig{
		Criteria:   []Criterion{fitsCriterion{}},
		Animals:    []model.Animal{housed},
		Enclosures: []model.Enclosure{enclosure(1, 50), full},
		ResetAll:   true,
	}

	outcome, err := Assign(context.Background(), config)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, outcome.State.Cleared)
	require.Len(t, outcome.Placements, 1)
	// Enclosure 1 is too small, so the animal lands back in enclosure 2
	assert.Equal(t, int64(2), outcome.Placements[0].EnclosureID)
	assert.Equal(t, 10.0, outcome.State.Slot(2).RemainingFloat())

	// Same enclosure and capacity as before, so nothing changed
	assert.Empty(t, outcome.State.ChangedAnimals())
	assert.Empty(t, outcome.State.ChangedEnclosures())
}

func TestAssign_ZeroCapacityEnclosureStillConsidered(t *testing.T) {
	empty := enclosure(1, 0)

	config := AssignmentConfig{
		Criteria:   []Criterion{fitsCriterion{}},
		Animals:    []model.Animal{animal(1, 0), animal(2, 5)},
		Enclosures: []model.Enclosure{empty},
	}

	outcome, err := Assign(context.Background(), config)
	require.NoError(t, err)

	require.Len(t, outcome.Placements, 1)
	assert.Equal(t, int64(1), outcome.Placements[0].AnimalID)
	assert.Len(t, outcome.Unplaced, 1)
}

func TestAssign_DoesNotMutateInput(t *testing.T) {
	animals := []model.Animal{animal(1, 10)}
	enclosures := []model.Enclosure{enclosure(1, 100)}

	_, err := Assign(context.Background(), AssignmentConfig{
		Criteria:   []Criterion{fitsCriterion{}},
		Animals:    animals,
		Enclosures: enclosures,
	})
	require.NoError(t, err)

	assert.Nil(t, animals[0].EnclosureID)
	assert.Equal(t, 100.0, enclosures[0].RemainingCapacity)
}

func TestAssign_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Assign(ctx, AssignmentConfig{
		Criteria:   []Criterion{fitsCriterion{}},
		Animals:    []model.Animal{animal(1, 10)},
		Enclosures: []model.Enclosure{enclosure(1, 100)},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssign_NoAnimals(t *testing.T) {
	outcome, err := Assign(context.Background(), AssignmentConfig{
		Enclosures: []model.Enclosure{enclosure(1, 100)},
	})
	require.NoError(t, err)

	assert.Empty(t, outcome.Placements)
	assert.Empty(t, outcome.Unplaced)
	assert.NotNil(t, outcome.ValidationErrors)
}

func TestIsEnclosureValidForAnimal_AllCriteriaMustAccept(t *testing.T) {
	state, err := InitAssignmentState(InitAssignmentInput{
		Animals:    []model.Animal{animal(1, 10)},
		Enclosures: []model.Enclosure{enclosure(1, 100)},
	})
	require.NoError(t, err)

	a := state.Animals[0]
	slot := state.Enclosures[0]

	assert.True(t, IsEnclosureValidForAnimal(state, a, slot, []Criterion{}))
	assert.True(t, IsEnclosureValidForAnimal(state, a, slot, []Criterion{fitsCriterion{}}))
	assert.False(t, IsEnclosureValidForAnimal(state, a, slot, []Criterion{fitsCriterion{}, vetoCriterion{enclosureID: 1}}))
}
