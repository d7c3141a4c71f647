package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driving"
	"github.com/docsweep/docsweep-cli/internal/logger"
)

// Ensure DuplicateDetector implements the interface.
var _ driving.DetectionService = (*DuplicateDetector)(nil)

// Static per-method confidence weights. Hash matches are certain; version
// grouping is a deliberate simplification pinned at 0.8.
const (
	hashConfidence    = 1.0
	versionConfidence = 0.8
)

// DuplicateDetector coordinates the three detection methods, reconciles
// their overlapping document memberships, and emits tiered
// recommendations. The pipeline is linear: hash, then similarity (when
// embeddings exist), then versions, then combined analysis,
// recommendations, and statistics. Disabling one stage never
// short-circuits the later ones.
type DuplicateDetector struct {
	cfg                domain.DetectionConfig
	hashDetector       *HashDuplicateDetector
	similarityAnalyzer *SimilarityAnalyzer
	versionDetector    *VersionDetector

	// Results of the most recent run, consumed by Summary.
	hashResults       *domain.HashDetectionResult
	similarityResults *domain.SimilarityDetectionResult
	versionResults    *domain.VersionDetectionResult
	totalDocuments    int
}

// NewDuplicateDetector creates the coordinator with its three detectors.
// The similarity backend is required; the fuzzy matcher may be nil.
func NewDuplicateDetector(
	cfg domain.DetectionConfig,
	backend driven.SimilarityBackend,
	matcher driven.FilenameMatcher,
) (*DuplicateDetector, error) {
	cfg = cfg.Normalise()

	analyzer, err := NewSimilarityAnalyzer(cfg, backend)
	if err != nil {
		return nil, err
	}

	return &DuplicateDetector{
		cfg:                cfg,
		hashDetector:       NewHashDuplicateDetector(cfg),
		similarityAnalyzer: analyzer,
		versionDetector:    NewVersionDetector(cfg, matcher),
	}, nil
}

// DetectAll performs comprehensive duplicate detection using all enabled
// methods. An empty document list yields an empty result, not an error.
func (d *DuplicateDetector) DetectAll(
	ctx context.Context, docs []domain.DocumentRecord, embeddings map[string][]float32,
) (*domain.DetectionResult, error) {
	logger.Section("Duplicate Detection")
	logger.Info("Starting comprehensive duplicate detection for %d documents", len(docs))

	d.totalDocuments = len(docs)

	result := &domain.DetectionResult{
		RunID:          uuid.NewString(),
		TotalDocuments: len(docs),
	}

	if d.cfg.EnableHashDetection {
		logger.Debug("Detecting exact duplicates using hashes...")
		d.hashResults = d.hashDetector.FindHashDuplicates(docs)
		result.HashDuplicates = *d.hashResults
	}

	if d.cfg.EnableSimilarityAnalysis && len(embeddings) > 0 {
		logger.Debug("Analyzing semantic similarity...")
		d.similarityResults = d.similarityAnalyzer.FindSimilarDocuments(docs, embeddings)
		result.Similarity = *d.similarityResults
	}

	if d.cfg.EnableVersionDetection {
		logger.Debug("Detecting document versions...")
		d.versionResults = d.versionDetector.FindDocumentVersions(docs)
		result.Versions = *d.versionResults
	}

	logger.Debug("Performing combined analysis...")
	result.Combined = d.combinedAnalysis()

	logger.Debug("Generating recommendations...")
	result.Recommendations = d.generateRecommendations()

	result.Statistics = d.compileStatistics()

	logger.Info("Duplicate detection completed: %d groups, %d recommendations",
		result.Statistics.CombinedTotals.TotalDuplicateGroups,
		result.Recommendations.Summary.TotalRecommendations)

	return result, ctx.Err()
}

// DetectExactDuplicates runs only hash-based detection.
func (d *DuplicateDetector) DetectExactDuplicates(
	_ context.Context, docs []domain.DocumentRecord,
) (*domain.HashDetectionResult, error) {
	return d.hashDetector.FindHashDuplicates(docs), nil
}

// DetectSimilarDocuments runs only semantic-similarity analysis.
func (d *DuplicateDetector) DetectSimilarDocuments(
	_ context.Context, docs []domain.DocumentRecord, embeddings map[string][]float32,
) (*domain.SimilarityDetectionResult, error) {
	return d.similarityAnalyzer.FindSimilarDocuments(docs, embeddings), nil
}

// DetectDocumentVersions runs only filename-version detection.
func (d *DuplicateDetector) DetectDocumentVersions(
	_ context.Context, docs []domain.DocumentRecord,
) (*domain.VersionDetectionResult, error) {
	return d.versionDetector.FindDocumentVersions(docs), nil
}

// methodMembership is one document's membership in one method's group.
type methodMembership struct {
	method     string
	groupID    string
	confidence float64
}

// combinedAnalysis reconciles the three methods' document-ID sets.
func (d *DuplicateDetector) combinedAnalysis() domain.CombinedAnalysis {
	hashIDs := make(map[string]struct{})
	simIDs := make(map[string]struct{})
	verIDs := make(map[string]struct{})

	if d.hashResults != nil {
		for _, group := range d.hashResults.DuplicateGroups {
			for _, doc := range group.Documents {
				hashIDs[doc.ID] = struct{}{}
			}
		}
	}
	if d.similarityResults != nil {
		for _, group := range d.similarityResults.SimilarityGroups {
			for _, doc := range group.Documents {
				simIDs[doc.ID] = struct{}{}
			}
		}
	}
	if d.versionResults != nil {
		for _, group := range d.versionResults.VersionGroups {
			for _, doc := range group.Documents {
				verIDs[doc.ID] = struct{}{}
			}
		}
	}

	in := func(set map[string]struct{}, id string) bool {
		_, ok := set[id]
		return ok
	}

	var overlap domain.OverlapAnalysis
	for id := range hashIDs {
		switch {
		case in(simIDs, id) && in(verIDs, id):
			overlap.AllThreeMethods++
		case in(simIDs, id):
			overlap.HashAndSimilarity++
		case in(verIDs, id):
			overlap.HashAndVersion++
		default:
			overlap.HashOnly++
		}
	}
	for id := range simIDs {
		if !in(hashIDs, id) {
			if in(verIDs, id) {
				overlap.SimilarityAndVersion++
			} else {
				overlap.SimilarityOnly++
			}
		}
	}
	for id := range verIDs {
		if !in(hashIDs, id) && !in(simIDs, id) {
			overlap.VersionOnly++
		}
	}

	return domain.CombinedAnalysis{
		CrossMethodMatches: d.crossMethodMatches(),
		ConfidenceScores:   d.confidenceScores(),
		OverlapAnalysis:    overlap,
	}
}

// crossMethodMatches finds documents flagged by more than one method and
// averages their per-method confidences.
func (d *DuplicateDetector) crossMethodMatches() []domain.CrossMethodMatch {
	memberships := make(map[string][]methodMembership)
	var idOrder []string

	// Exact duplicates share a content-derived ID, so the same document
	// ID can surface repeatedly within one group; count each method
	// membership once.
	record := func(id string, m methodMembership) {
		if _, seen := memberships[id]; !seen {
			idOrder = append(idOrder, id)
		}
		for _, existing := range memberships[id] {
			if existing.method == m.method && existing.groupID == m.groupID {
				return
			}
		}
		memberships[id] = append(memberships[id], m)
	}

	if d.hashResults != nil {
		for _, group := range d.hashResults.DuplicateGroups {
			for _, doc := range group.Documents {
				record(doc.ID, methodMembership{"hash", group.GroupID, hashConfidence})
			}
		}
	}
	if d.similarityResults != nil {
		for _, group := range d.similarityResults.SimilarityGroups {
			for _, doc := range group.Documents {
				record(doc.ID, methodMembership{"similarity", group.GroupID, group.AvgSimilarity})
			}
		}
	}
	if d.versionResults != nil {
		for _, group := range d.versionResults.VersionGroups {
			for _, doc := range group.Documents {
				record(doc.ID, methodMembership{"version", group.GroupID, versionConfidence})
			}
		}
	}

	var matches []domain.CrossMethodMatch
	for _, id := range idOrder {
		groups := memberships[id]
		if len(groups) < 2 {
			continue
		}

		match := domain.CrossMethodMatch{
			DocumentID:  id,
			MethodCount: len(groups),
		}
		var total float64
		for _, g := range groups {
			match.Methods = append(match.Methods, g.method)
			match.GroupIDs = append(match.GroupIDs, g.groupID)
			total += g.confidence
		}
		match.AvgConfidence = total / float64(len(groups))

		matches = append(matches, match)
	}

	// Strongest signals first: more methods, then higher confidence.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MethodCount != matches[j].MethodCount {
			return matches[i].MethodCount > matches[j].MethodCount
		}
		return matches[i].AvgConfidence > matches[j].AvgConfidence
	})

	return matches
}

// confidenceScores assigns a confidence per group. Hash groups are
// certain; similarity groups inherit their average similarity; version
// groups are rated by the strength of the pattern that formed them.
func (d *DuplicateDetector) confidenceScores() map[string]float64 {
	scores := make(map[string]float64)

	if d.hashResults != nil {
		for _, group := range d.hashResults.DuplicateGroups {
			scores[group.GroupID] = hashConfidence
		}
	}
	if d.similarityResults != nil {
		for _, group := range d.similarityResults.SimilarityGroups {
			scores[group.GroupID] = group.AvgSimilarity
		}
	}
	if d.versionResults != nil {
		for _, group := range d.versionResults.VersionGroups {
			pattern := ""
			if group.VersionAnalysis != nil {
				pattern = group.VersionAnalysis.VersionPattern
			}
			switch {
			case strings.Contains(pattern, "version_numbers"):
				scores[group.GroupID] = 0.9
			case strings.Contains(pattern, "date_stamps"):
				scores[group.GroupID] = 0.8
			case strings.Contains(pattern, "copy_indicators"):
				scores[group.GroupID] = 0.7
			default:
				scores[group.GroupID] = 0.6
			}
		}
	}

	return scores
}

// generateRecommendations collects per-method recommendations into
// priority tiers and totals the estimated savings.
func (d *DuplicateDetector) generateRecommendations() domain.RecommendationSet {
	set := domain.RecommendationSet{
		HighPriority:   []domain.Recommendation{},
		MediumPriority: []domain.Recommendation{},
		LowPriority:    []domain.Recommendation{},
	}

	// Hash duplicate recommendations are always high priority.
	if d.hashResults != nil {
		for _, rec := range d.hashDetector.GenerateDeletionRecommendations(d.hashResults) {
			rec.Priority = domain.PriorityHigh
			rec.Method = "hash"
			rec.Confidence = hashConfidence
			set.HighPriority = append(set.HighPriority, rec)
		}
	}

	// Similarity recommendations tier by average similarity.
	if d.similarityResults != nil {
		for _, rec := range d.similarityAnalyzer.SimilarityRecommendations(d.similarityResults) {
			rec.Method = "similarity"
			rec.Confidence = rec.AvgSimilarity
			switch {
			case rec.AvgSimilarity > 0.95:
				rec.Priority = domain.PriorityHigh
				set.HighPriority = append(set.HighPriority, rec)
			case rec.AvgSimilarity > 0.85:
				rec.Priority = domain.PriorityMedium
				set.MediumPriority = append(set.MediumPriority, rec)
			default:
				rec.Priority = domain.PriorityLow
				set.LowPriority = append(set.LowPriority, rec)
			}
		}
	}

	// Version consolidation recommendations are always medium priority.
	if d.versionResults != nil {
		for _, rec := range d.versionDetector.VersionRecommendations(d.versionResults) {
			rec.Priority = domain.PriorityMedium
			rec.Method = "version"
			rec.Confidence = versionConfidence
			set.MediumPriority = append(set.MediumPriority, rec)
		}
	}

	var summary domain.RecommendationSummary
	for _, rec := range set.All() {
		summary.TotalRecommendations++
		summary.TotalSpaceSaved += rec.SpaceSaved
		if len(rec.DeleteDocuments) > 0 {
			summary.TotalFilesToRemove += len(rec.DeleteDocuments)
		} else if len(rec.ArchiveVersions) > 0 {
			summary.TotalFilesToRemove += len(rec.ArchiveVersions)
		}
	}
	summary.HighPriorityCount = len(set.HighPriority)
	summary.MediumPriorityCount = len(set.MediumPriority)
	summary.LowPriorityCount = len(set.LowPriority)
	summary.TotalSpaceSavedMB = float64(summary.TotalSpaceSaved) / (1024 * 1024)
	set.Summary = summary

	return set
}

// compileStatistics aggregates per-method counters for the run.
func (d *DuplicateDetector) compileStatistics() domain.DetectionStatistics {
	stats := domain.DetectionStatistics{
		TotalDocuments:     d.totalDocuments,
		HashDetection:      d.hashDetector.Statistics(),
		SimilarityAnalysis: d.similarityAnalyzer.Statistics(),
		VersionDetection:   d.versionDetector.Statistics(),
	}

	countGroups := func(groups []domain.DuplicateGroup) {
		stats.CombinedTotals.TotalDuplicateGroups += len(groups)
		for _, g := range groups {
			stats.CombinedTotals.TotalDuplicateFiles += g.DocumentCount - 1
		}
	}
	if d.hashResults != nil {
		countGroups(d.hashResults.DuplicateGroups)
	}
	if d.similarityResults != nil {
		countGroups(d.similarityResults.SimilarityGroups)
	}
	if d.versionResults != nil {
		countGroups(d.versionResults.VersionGroups)
	}

	if d.totalDocuments > 0 {
		pct := float64(stats.CombinedTotals.TotalDuplicateFiles) / float64(d.totalDocuments) * 100
		stats.CombinedTotals.DuplicatePercentage = float64(int(pct*100+0.5)) / 100
	}

	return stats
}

// Summary returns a high-level digest of the most recent run.
func (d *DuplicateDetector) Summary() map[string]any {
	summary := map[string]any{
		"documents_analyzed":    d.totalDocuments,
		"exact_duplicates":      0,
		"similar_documents":     0,
		"version_groups":        0,
		"total_wasted_space_mb": 0.0,
	}

	if d.hashResults != nil {
		summary["exact_duplicates"] = len(d.hashResults.DuplicateGroups)
		summary["total_wasted_space_mb"] = float64(d.hashResults.Statistics.TotalWastedSpace) / (1024 * 1024)
	}
	if d.similarityResults != nil {
		summary["similar_documents"] = len(d.similarityResults.SimilarityGroups)
	}
	if d.versionResults != nil {
		summary["version_groups"] = len(d.versionResults.VersionGroups)
	}

	return summary
}

// ResetAnalysis clears the previous run's results and all per-run counters.
func (d *DuplicateDetector) ResetAnalysis() {
	d.hashResults = nil
	d.similarityResults = nil
	d.versionResults = nil
	d.totalDocuments = 0

	d.hashDetector.ResetStatistics()
	d.similarityAnalyzer.ResetStatistics()
	d.versionDetector.ResetStatistics()
}
