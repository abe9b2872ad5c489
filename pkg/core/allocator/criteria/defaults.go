package criteria

import "github.com/jakechorley/zoo-enclosures/pkg/core/allocator"

// Default returns the criteria used by auto-assignment: capacity then security.
// Dietary restrictions are not checked when placing animals.
func Default() []allocator.Criterion {
	return []allocator.Criterion{
		NewCapacityCriterion(),
		NewSecurityCriterion(),
	}
}
