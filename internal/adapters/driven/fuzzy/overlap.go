package fuzzy

import (
	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
)

// Ensure OverlapMatcher implements the interface.
var _ driven.FilenameMatcher = (*OverlapMatcher)(nil)

// OverlapMatcher scores string similarity from shared character sets.
// It is coarser than edit distance but needs no dependency, and serves
// as the fallback when approximate matching is unavailable.
type OverlapMatcher struct{}

// NewOverlapMatcher creates a character-overlap based matcher.
func NewOverlapMatcher() *OverlapMatcher {
	return &OverlapMatcher{}
}

// Ratio returns the Jaccard index of the two strings' character sets.
// Identical strings score 1; two empty strings are identical.
func (m *OverlapMatcher) Ratio(a, b string) float64 {
	if a == b {
		return 1
	}

	setA := make(map[rune]struct{})
	for _, r := range a {
		setA[r] = struct{}{}
	}
	setB := make(map[rune]struct{})
	for _, r := range b {
		setB[r] = struct{}{}
	}

	var intersection int
	for r := range setA {
		if _, ok := setB[r]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1
	}

	return float64(intersection) / float64(union)
}

// Name identifies this matcher in logs and statistics.
func (m *OverlapMatcher) Name() string {
	return "character_overlap"
}
