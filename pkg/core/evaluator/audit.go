package evaluator

import (
	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
)

// Finding is an issue found for a specific animal in a specific enclosure
type Finding struct {
	AnimalID      int64
	AnimalName    string
	EnclosureID   int64
	EnclosureName string
	Issue         Issue
}

// AuditEnclosure evaluates every animal housed in the enclosure and returns all findings.
// Animals not in the enclosure are ignored.
func (ev *Evaluator) AuditEnclosure(enclosure *model.Enclosure, animals []model.Animal) []Finding {
	findings := []Finding{}
	for i := range animals {
		animal := &animals[i]
		if !animal.InEnclosure(enclosure.ID) {
			continue
		}

		result := ev.Evaluate(animal, enclosure)
		for _, issue := range result.Issues {
			findings = append(findings, Finding{
				AnimalID:      animal.ID,
				AnimalName:    animal.Name,
				EnclosureID:   enclosure.ID,
				EnclosureName: enclosure.Name,
				Issue:         issue,
			})
		}
	}
	return findings
}

// AuditZoo audits every enclosure in order. An empty result means full compliance.
func (ev *Evaluator) AuditZoo(enclosures []model.Enclosure, animals []model.Animal) []Finding {
	findings := []Finding{}
	for i := range enclosures {
		findings = append(findings, ev.AuditEnclosure(&enclosures[i], animals)...)
	}
	return findings
}

// AuditEnclosure audits an enclosure using the default rules
func AuditEnclosure(enclosure *model.Enclosure, animals []model.Animal) []Finding {
	return defaultEvaluator.AuditEnclosure(enclosure, animals)
}

// AuditZoo audits all enclosures using the default rules
func AuditZoo(enclosures []model.Enclosure, animals []model.Animal) []Finding {
	return defaultEvaluator.AuditZoo(enclosures, animals)
}
