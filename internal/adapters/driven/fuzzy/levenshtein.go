// Package fuzzy provides driven.FilenameMatcher implementations for
// approximate filename comparison.
package fuzzy

import (
	"github.com/agnivade/levenshtein"

	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
)

// Ensure LevenshteinMatcher implements the interface.
var _ driven.FilenameMatcher = (*LevenshteinMatcher)(nil)

// LevenshteinMatcher scores string similarity from edit distance.
// It is stateless and safe for concurrent use.
type LevenshteinMatcher struct{}

// NewLevenshteinMatcher creates an edit-distance based matcher.
func NewLevenshteinMatcher() *LevenshteinMatcher {
	return &LevenshteinMatcher{}
}

// Ratio returns 1 minus the normalised edit distance between a and b.
// Identical strings score 1; strings with nothing in common score 0.
// Two empty strings are identical.
func (m *LevenshteinMatcher) Ratio(a, b string) float64 {
	if a == b {
		return 1
	}

	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Name identifies this matcher in logs and statistics.
func (m *LevenshteinMatcher) Name() string {
	return "levenshtein"
}
