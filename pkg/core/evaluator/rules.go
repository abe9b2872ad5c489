package evaluator

import (
	"fmt"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// IssueKind names a violated constraint
type IssueKind string

const (
	IssueUnassigned           IssueKind = "Unassigned"
	IssueInsufficientSpace    IssueKind = "InsufficientSpace"
	IssueInsufficientSecurity IssueKind = "InsufficientSecurity"
	IssueForbiddenDiet        IssueKind = "ForbiddenDiet"
)

// Rule is a single compatibility constraint between an animal and an enclosure.
// Rules must be pure: no storage access, no side effects.
type Rule interface {
	// Kind returns the issue reported when this rule is violated
	Kind() IssueKind

	// Check returns a human-readable description and true if the rule is violated
	Check(animal *model.Animal, enclosure *model.Enclosure) (string, bool)
}

// SpaceRule requires the enclosure's rated size to cover the animal's space requirement.
// Co-occupants are not considered.
type SpaceRule struct{}

func (SpaceRule) Kind() IssueKind { return IssueInsufficientSpace }

func (SpaceRule) Check(animal *model.Animal, enclosure *model.Enclosure) (string, bool) {
	if enclosure.Size < animal.SpaceRequirement {
		return fmt.Sprintf("%s needs more space (%gm² required, %gm² available)",
			animal.Name, animal.SpaceRequirement, enclosure.Size), true
	}
	return "", false
}

// SecurityRule requires the enclosure's security level to be at least the animal's requirement
type SecurityRule struct{}

func (SecurityRule) Kind() IssueKind { return IssueInsufficientSecurity }

func (SecurityRule) Check(animal *model.Animal, enclosure *model.Enclosure) (string, bool) {
	if animal.SecurityRequirement > enclosure.SecurityLevel {
		return fmt.Sprintf("%s needs higher security (level %s required, %s available)",
			animal.Name, animal.SecurityRequirement, enclosure.SecurityLevel), true
	}
	return "", false
}

// DietRule forbids animals whose dietary class appears in the enclosure's restrictions
type DietRule struct{}

func (DietRule) Kind() IssueKind { return IssueForbiddenDiet }

func (DietRule) Check(animal *model.Animal, enclosure *model.Enclosure) (string, bool) {
	if enclosure.Forbids(animal.DietaryClass) {
		return fmt.Sprintf("%s has a %s diet, which is not allowed in %s",
			animal.Name, animal.DietaryClass, enclosure.Name), true
	}
	return "", false
}

// DefaultRules are evaluated in this order, which is also the order issues are reported in
func DefaultRules() []Rule {
	return []Rule{SpaceRule{}, SecurityRule{}, DietRule{}}
}
