package evaluator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

func TestEvaluate_NilEnclosure(t *testing.T) {
	animal := &model.Animal{ID: 1, Name: "Leo"}

	result := Evaluate(animal, nil)

	assert.False(t, result.Compatible)
	assert.Equal(t, []IssueKind{IssueUnassigned}, result.Kinds())
	assert.Contains(t, result.Issues[0].Detail, "Leo")
}

func TestEvaluate_Compatible(t *testing.T) {
	animal := &model.Animal{
		Name:                "Zebra",
		DietaryClass:        model.DietHerbivore,
		SpaceRequirement:    40,
		SecurityRequirement: model.SecurityLow,
	}
	enclosure := &model.Enclosure{
		Name:                "Savanna",
		Size:                100,
		SecurityLevel:       model.SecurityMedium,
		DietaryRestrictions: "Carnivore",
	}

	result := Evaluate(animal, enclosure)

	assert.True(t, result.Compatible)
	assert.Empty(t, result.Issues)
}

func TestEvaluate_ExactBoundariesAreCompatible(t *testing.T) {
	animal := &model.Animal{SpaceRequirement: 50, SecurityRequirement: model.SecurityHigh}
	enclosure := &model.Enclosure{Size: 50, SecurityLevel: model.SecurityHigh}

	assert.True(t, Evaluate(animal, enclosure).Compatible)
}

// Every combination of violated rules is reported exactly, in space→security→diet order
func TestEvaluate_AllRuleCombinations(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		spaceViolated := mask&1 != 0
		securityViolated := mask&2 != 0
		dietViolated := mask&4 != 0

		t.Run(fmt.Sprintf("space=%v,security=%v,diet=%v", spaceViolated, securityViolated, dietViolated), func(t *testing.T) {
			animal := &model.Animal{
				Name:                "Subject",
				DietaryClass:        model.DietCarnivore,
				SpaceRequirement:    10,
				SecurityRequirement: model.SecurityMedium,
			}
			enclosure := &model.Enclosure{
				Name:          "Pen",
				Size:          20,
				SecurityLevel: model.SecurityHigh,
			}

			var expected []IssueKind
			if spaceViolated {
				enclosure.Size = 5
				expected = append(expected, IssueInsufficientSpace)
			}
			if securityViolated {
				enclosure.SecurityLevel = model.SecurityLow
				expected = append(expected, IssueInsufficientSecurity)
			}
			if dietViolated {
				enclosure.DietaryRestrictions = "Herbivore, Carnivore"
				expected = append(expected, IssueForbiddenDiet)
			}

			result := Evaluate(animal, enclosure)

			assert.Equal(t, len(expected) == 0, result.Compatible)
			if expected == nil {
				assert.Empty(t, result.Kinds())
			} else {
				assert.Equal(t, expected, result.Kinds())
			}
		})
	}
}

func TestEvaluate_DietMatchIsCaseSensitive(t *testing.T) {
	animal := &model.Animal{Name: "Wolf", DietaryClass: model.DietCarnivore}
	enclosure := &model.Enclosure{Name: "Forest", Size: 10, DietaryRestrictions: "carnivore"}

	assert.True(t, Evaluate(animal, enclosure).Compatible)
}

func TestEvaluate_Deterministic(t *testing.T) {
	animal := &model.Animal{Name: "Bear", SpaceRequirement: 200, SecurityRequirement: model.SecurityHigh}
	enclosure := &model.Enclosure{Name: "Hut", Size: 10}

	first := Evaluate(animal, enclosure)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Evaluate(animal, enclosure))
	}
}

func TestNew_CustomRules(t *testing.T) {
	ev := New(SecurityRule{})
	animal := &model.Animal{SpaceRequirement: 1000, SecurityRequirement: model.SecurityHigh}
	enclosure := &model.Enclosure{Size: 1, SecurityLevel: model.SecurityLow}

	result := ev.Evaluate(animal, enclosure)

	assert.Equal(t, []IssueKind{IssueInsufficientSecurity}, result.Kinds())
}

func TestAuditEnclosure(t *testing.T) {
	enclosure := &model.Enclosure{ID: 1, Name: "Reptile House", Size: 30, SecurityLevel: model.SecurityMedium}
	animals := []model.Animal{
		{ID: 1, Name: "Croc", EnclosureID: model.ID(1), SpaceRequirement: 40, SecurityRequirement: model.SecurityHigh},
		{ID: 2, Name: "Gecko", EnclosureID: model.ID(1), SpaceRequirement: 1},
		{ID: 3, Name: "Lion", EnclosureID: model.ID(2), SpaceRequirement: 400, SecurityRequirement: model.SecurityHigh},
		{ID: 4, Name: "Stray", SpaceRequirement: 400},
	}

	findings := AuditEnclosure(enclosure, animals)

	require.Len(t, findings, 2)
	assert.Equal(t, "Croc", findings[0].AnimalName)
	assert.Equal(t, IssueInsufficientSpace, findings[0].Issue.Kind)
	assert.Equal(t, "Croc", findings[1].AnimalName)
	assert.Equal(t, IssueInsufficientSecurity, findings[1].Issue.Kind)
	assert.Equal(t, "Reptile House", findings[1].EnclosureName)
}

func TestAuditZoo(t *testing.T) {
	enclosures := []model.Enclosure{
		{ID: 1, Name: "Savanna", Size: 500, SecurityLevel: model.SecurityHigh, DietaryRestrictions: "Carnivore"},
		{ID: 2, Name: "Aviary", Size: 150, SecurityLevel: model.SecurityLow},
	}
	animals := []model.Animal{
		{ID: 1, Name: "Leo", EnclosureID: model.ID(1), DietaryClass: model.DietCarnivore, SpaceRequirement: 50},
		{ID: 2, Name: "Polly", EnclosureID: model.ID(2), DietaryClass: model.DietHerbivore, SpaceRequirement: 2},
	}

	findings := AuditZoo(enclosures, animals)

	require.Len(t, findings, 1)
	assert.Equal(t, "Leo", findings[0].AnimalName)
	assert.Equal(t, IssueForbiddenDiet, findings[0].Issue.Kind)

	animals[0].DietaryClass = model.DietOmnivore
	assert.Empty(t, AuditZoo(enclosures, animals), "full compliance yields no findings")
}
