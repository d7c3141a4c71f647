package services

import (
	"sort"
	"strings"
	"time"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
)

// KeepPreferencePolicy scores which member of an exact-duplicate group
// should be kept. Higher scores win. The weights are hand-tuned policy,
// not derived constants; tests can substitute a deterministic policy.
type KeepPreferencePolicy struct {
	// ThrowawayPathPenalty applies when the path contains a throwaway
	// directory marker (temp, tmp, cache, recycle).
	ThrowawayPathPenalty float64

	// SuspectNamePenalty applies when the filename contains a duplicate
	// marker (copy, backup, duplicate, old).
	SuspectNamePenalty float64

	// RecencyWeight scales the modification time expressed as days
	// since the Unix epoch, so newer files score higher.
	RecencyWeight float64

	// DepthPenalty applies per path separator, preferring files closer
	// to the root of their share.
	DepthPenalty float64
}

// DefaultKeepPreferencePolicy returns the standard keep-preference weights.
func DefaultKeepPreferencePolicy() KeepPreferencePolicy {
	return KeepPreferencePolicy{
		ThrowawayPathPenalty: 100,
		SuspectNamePenalty:   50,
		RecencyWeight:        1,
		DepthPenalty:         1,
	}
}

var (
	throwawayPathMarkers = []string{"temp", "tmp", "cache", "recycle"}
	suspectNameMarkers   = []string{"copy", "backup", "duplicate", "old"}
)

// Score computes the keep-preference score for one document summary.
func (p KeepPreferencePolicy) Score(doc domain.DocumentSummary) float64 {
	var score float64

	path := strings.ToLower(doc.Path)
	for _, marker := range throwawayPathMarkers {
		if strings.Contains(path, marker) {
			score -= p.ThrowawayPathPenalty
			break
		}
	}

	filename := strings.ToLower(doc.Filename)
	for _, marker := range suspectNameMarkers {
		if strings.Contains(filename, marker) {
			score -= p.SuspectNamePenalty
			break
		}
	}

	if doc.ModifiedDate != "" {
		if t, err := time.Parse(time.RFC3339, doc.ModifiedDate); err == nil {
			score += p.RecencyWeight * float64(t.Unix()) / (24 * 3600)
		}
	}

	depth := strings.Count(doc.Path, "/") + strings.Count(doc.Path, "\\")
	score -= p.DepthPenalty * float64(depth)

	return score
}

// SortByPreference orders summaries best-to-keep first. The sort is
// stable so equal scores preserve input order.
func (p KeepPreferencePolicy) SortByPreference(docs []domain.DocumentSummary) []domain.DocumentSummary {
	sorted := make([]domain.DocumentSummary, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return p.Score(sorted[i]) > p.Score(sorted[j])
	})
	return sorted
}

// KeepReasoning explains why the kept document won over the deleted ones.
func (p KeepPreferencePolicy) KeepReasoning(keep domain.DocumentSummary, deleted []domain.DocumentSummary) string {
	var reasons []string

	path := strings.ToLower(keep.Path)
	clean := true
	for _, marker := range throwawayPathMarkers {
		if strings.Contains(path, marker) {
			clean = false
			break
		}
	}
	if clean {
		reasons = append(reasons, "located in a permanent directory")
	}

	filename := strings.ToLower(keep.Filename)
	clean = true
	for _, marker := range suspectNameMarkers {
		if strings.Contains(filename, marker) {
			clean = false
			break
		}
	}
	if clean {
		reasons = append(reasons, "has a clean filename")
	}

	if keepDate, err := time.Parse(time.RFC3339, keep.ModifiedDate); err == nil {
		newest := true
		for _, d := range deleted {
			if dd, err := time.Parse(time.RFC3339, d.ModifiedDate); err == nil && dd.After(keepDate) {
				newest = false
				break
			}
		}
		if newest {
			reasons = append(reasons, "is the most recently modified")
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "was selected based on file location and naming")
	}

	return "Keep this file because it " + strings.Join(reasons, ", ")
}
