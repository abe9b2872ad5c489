package evaluator

import (
	"fmt"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// Issue is a single violated constraint
type Issue struct {
	Kind   IssueKind
	Detail string
}

// Result is the compatibility verdict for one animal against one enclosure
type Result struct {
	Compatible bool
	Issues     []Issue
}

// Kinds returns the issue kinds in report order
func (r Result) Kinds() []IssueKind {
	kinds := make([]IssueKind, 0, len(r.Issues))
	for _, issue := range r.Issues {
		kinds = append(kinds, issue.Kind)
	}
	return kinds
}

// Evaluator checks animals against enclosures using a fixed, ordered set of rules
type Evaluator struct {
	rules []Rule
}

// New creates an evaluator for the given rules. With no rules, DefaultRules is used.
func New(rules ...Rule) *Evaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Evaluator{rules: rules}
}

var defaultEvaluator = New()

// Evaluate checks an animal against an enclosure using the default rules
func Evaluate(animal *model.Animal, enclosure *model.Enclosure) Result {
	return defaultEvaluator.Evaluate(animal, enclosure)
}

// Evaluate checks an animal against an enclosure. A nil enclosure is always incompatible
// with a single Unassigned issue. Every violated rule is reported, not just the first.
func (ev *Evaluator) Evaluate(animal *model.Animal, enclosure *model.Enclosure) Result {
	if enclosure == nil {
		return Result{
			Compatible: false,
			Issues: []Issue{{
				Kind:   IssueUnassigned,
				Detail: fmt.Sprintf("%s is not assigned to an enclosure", animal.Name),
			}},
		}
	}

	result := Result{Issues: []Issue{}}
	for _, rule := range ev.rules {
		if detail, violated := rule.Check(animal, enclosure); violated {
			result.Issues = append(result.Issues, Issue{Kind: rule.Kind(), Detail: detail})
		}
	}
	result.Compatible = len(result.Issues) == 0
	return result
}
