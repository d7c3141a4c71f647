package services

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
	"github.com/docsweep/docsweep-cli/internal/logger"
)

// SimilarityAnalyzer finds documents with similar content using embeddings.
//
// It builds a full pairwise cosine-similarity matrix and clusters its
// distance complement, so memory and compute are O(n^2) in the number of
// embedded documents. Callers needing to scale beyond a few thousand
// documents must pre-shard the embedding set before invoking it.
type SimilarityAnalyzer struct {
	backend             driven.SimilarityBackend
	similarityThreshold float64
	sizeTolerance       float64

	// Per-run statistics, reset explicitly between runs.
	documentsProcessed    int
	similarityGroupsFound int
	comparisonsMade       int
}

// NewSimilarityAnalyzer creates a similarity analyzer. The backend is
// required: without clustering support the analyzer cannot function, so
// a nil backend is a constructor error rather than a silent degrade.
func NewSimilarityAnalyzer(cfg domain.DetectionConfig, backend driven.SimilarityBackend) (*SimilarityAnalyzer, error) {
	if backend == nil {
		return nil, domain.ErrSimilarityUnavailable
	}
	return &SimilarityAnalyzer{
		backend:             backend,
		similarityThreshold: cfg.ContentSimilarityThreshold,
		sizeTolerance:       cfg.SizeTolerance,
	}, nil
}

// FindSimilarDocuments clusters embedded documents by cosine similarity.
// An empty or missing embedding map yields an empty result, not an error.
func (a *SimilarityAnalyzer) FindSimilarDocuments(
	docs []domain.DocumentRecord, embeddings map[string][]float32,
) *domain.SimilarityDetectionResult {
	logger.Info("Analyzing similarity for %d documents", len(docs))

	empty := &domain.SimilarityDetectionResult{
		Method:              "semantic_similarity",
		SimilarityThreshold: a.similarityThreshold,
		SimilarityGroups:    []domain.DuplicateGroup{},
	}

	if len(embeddings) == 0 {
		logger.Warn("No embeddings provided for similarity analysis")
		return empty
	}

	// Keep only embeddings with a matching document, in document order so
	// cluster labels and group IDs are deterministic.
	byID := make(map[string]*domain.DocumentRecord, len(docs))
	var ids []string
	var vectors [][]float32
	for i := range docs {
		id := docs[i].ID()
		if _, dup := byID[id]; dup {
			continue
		}
		vec, ok := embeddings[id]
		if !ok || len(vec) == 0 {
			continue
		}
		byID[id] = &docs[i]
		ids = append(ids, id)
		vectors = append(vectors, vec)
	}

	if len(ids) == 0 {
		logger.Warn("No matching embeddings found for documents")
		return empty
	}

	similarity := a.backend.PairwiseSimilarity(vectors)
	a.comparisonsMade = len(ids) * (len(ids) - 1) / 2

	groups := a.findSimilarityGroups(ids, similarity, byID)
	enhanced := a.enhanceSimilarityGroups(groups, byID)

	a.documentsProcessed = len(ids)
	a.similarityGroupsFound = len(enhanced)

	var avgGroupSize float64
	if len(enhanced) > 0 {
		total := 0
		for _, g := range enhanced {
			total += g.DocumentCount
		}
		avgGroupSize = float64(total) / float64(len(enhanced))
	}

	return &domain.SimilarityDetectionResult{
		Method:              "semantic_similarity",
		SimilarityThreshold: a.similarityThreshold,
		SimilarityGroups:    enhanced,
		MatrixSize:          len(ids),
		Statistics: domain.SimilarityStatistics{
			DocumentsProcessed:    a.documentsProcessed,
			SimilarityGroupsFound: a.similarityGroupsFound,
			ComparisonsMade:       a.comparisonsMade,
			AvgGroupSize:          avgGroupSize,
		},
	}
}

// findSimilarityGroups converts the similarity matrix to distances and
// runs density-based clustering. Points labelled noise are discarded.
func (a *SimilarityAnalyzer) findSimilarityGroups(
	ids []string, similarity [][]float64, byID map[string]*domain.DocumentRecord,
) []domain.DuplicateGroup {
	n := len(ids)
	distances := make([][]float64, n)
	for i := range distances {
		distances[i] = make([]float64, n)
		for j := range distances[i] {
			distances[i][j] = 1 - similarity[i][j]
		}
	}

	eps := 1 - a.similarityThreshold
	labels := a.backend.Cluster(distances, eps, 2)

	clusters := make(map[int][]int)
	var order []int
	for i, label := range labels {
		if label == -1 {
			continue
		}
		if _, seen := clusters[label]; !seen {
			order = append(order, label)
		}
		clusters[label] = append(clusters[label], i)
	}
	sort.Ints(order)

	var groups []domain.DuplicateGroup
	for _, label := range order {
		indices := clusters[label]
		if len(indices) < 2 {
			continue
		}

		var sims []float64
		for i := 0; i < len(indices); i++ {
			for j := i + 1; j < len(indices); j++ {
				sims = append(sims, similarity[indices[i]][indices[j]])
			}
		}

		group := domain.DuplicateGroup{
			GroupID:       fmt.Sprintf("sim_%d", label),
			Type:          domain.GroupTypeSemanticSimilarity,
			DocumentCount: len(indices),
			AvgSimilarity: stat.Mean(sims, nil),
			MinSimilarity: minFloat(sims),
			MaxSimilarity: maxFloat(sims),
		}
		for _, idx := range indices {
			id := ids[idx]
			group.DocumentIDs = append(group.DocumentIDs, id)
			group.Documents = append(group.Documents, byID[id].Summary())
		}

		groups = append(groups, group)
	}

	return groups
}

// enhanceSimilarityGroups annotates each group with size, extension,
// temporal, path, and content-length analyses, then classifies the
// likely relationship between its members.
func (a *SimilarityAnalyzer) enhanceSimilarityGroups(
	groups []domain.DuplicateGroup, byID map[string]*domain.DocumentRecord,
) []domain.DuplicateGroup {
	for gi := range groups {
		group := &groups[gi]

		members := make([]*domain.DocumentRecord, 0, len(group.DocumentIDs))
		for _, id := range group.DocumentIDs {
			members = append(members, byID[id])
		}

		group.SizeAnalysis = a.analyseSizes(members)
		group.FileTypeAnalysis = analyseFileTypes(members)
		group.TemporalAnalysis = analyseTemporalSpread(members)
		group.PathAnalysis = analysePaths(members)
		group.ContentAnalysis = analyseContentLengths(members)
		group.RelationshipType = classifyRelationship(group)
	}

	return groups
}

// analyseSizes computes size spread and the within-tolerance check.
// Sizes count as similar when the full min-to-max spread stays within
// sizeTolerance of the group mean, so 1000 and 1060 bytes fail a 5%
// tolerance (6% spread relative to the 1030 mean).
func (a *SimilarityAnalyzer) analyseSizes(members []*domain.DocumentRecord) *domain.SizeAnalysis {
	sizes := make([]float64, len(members))
	minSize, maxSize := members[0].Size, members[0].Size
	for i, doc := range members {
		sizes[i] = float64(doc.Size)
		if doc.Size < minSize {
			minSize = doc.Size
		}
		if doc.Size > maxSize {
			maxSize = doc.Size
		}
	}

	mean := stat.Mean(sizes, nil)
	variance := stat.PopVariance(sizes, nil)

	similar := true
	if mean > 0 {
		similar = float64(maxSize-minSize) <= mean*a.sizeTolerance
	}

	return &domain.SizeAnalysis{
		MinSize:      minSize,
		MaxSize:      maxSize,
		AvgSize:      mean,
		SizeVariance: variance,
		SimilarSizes: similar,
	}
}

func analyseFileTypes(members []*domain.DocumentRecord) *domain.FileTypeAnalysis {
	distribution := make(map[string]int)
	for _, doc := range members {
		distribution[doc.FileExtension]++
	}

	extensions := make([]string, 0, len(distribution))
	for ext := range distribution {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)

	return &domain.FileTypeAnalysis{
		Extensions:            extensions,
		SameExtension:         len(distribution) == 1,
		ExtensionDistribution: distribution,
	}
}

func analyseTemporalSpread(members []*domain.DocumentRecord) *domain.TemporalAnalysis {
	var oldest, newest *time.Time
	for _, doc := range members {
		if doc.ModifiedDate == nil {
			continue
		}
		if oldest == nil || doc.ModifiedDate.Before(*oldest) {
			oldest = doc.ModifiedDate
		}
		if newest == nil || doc.ModifiedDate.After(*newest) {
			newest = doc.ModifiedDate
		}
	}
	if oldest == nil {
		return nil
	}

	return &domain.TemporalAnalysis{
		DateRangeDays: int(newest.Sub(*oldest).Hours() / 24),
		OldestFile:    oldest.Format(time.RFC3339),
		NewestFile:    newest.Format(time.RFC3339),
	}
}

func analysePaths(members []*domain.DocumentRecord) *domain.PathAnalysis {
	paths := make([]string, len(members))
	distribution := make(map[string]int)
	for i, doc := range members {
		paths[i] = doc.Path
		distribution[filepath.Dir(doc.Path)]++
	}

	return &domain.PathAnalysis{
		CommonDirectory:       commonDirectory(paths),
		SameDirectory:         len(distribution) == 1,
		DirectoryDistribution: distribution,
	}
}

func analyseContentLengths(members []*domain.DocumentRecord) *domain.ContentAnalysis {
	var lengths []float64
	minLen, maxLen := 0, 0
	for _, doc := range members {
		if doc.TextLength <= 0 {
			continue
		}
		if len(lengths) == 0 || doc.TextLength < minLen {
			minLen = doc.TextLength
		}
		if doc.TextLength > maxLen {
			maxLen = doc.TextLength
		}
		lengths = append(lengths, float64(doc.TextLength))
	}
	if len(lengths) == 0 {
		return nil
	}

	return &domain.ContentAnalysis{
		MinLength:      minLen,
		MaxLength:      maxLen,
		AvgLength:      stat.Mean(lengths, nil),
		LengthVariance: stat.PopVariance(lengths, nil),
	}
}

// classifyRelationship applies the relationship rules in order; the first
// matching rule wins. The thresholds are heuristic policy, not statistics.
func classifyRelationship(group *domain.DuplicateGroup) domain.RelationshipType {
	sameExtension := group.FileTypeAnalysis != nil && group.FileTypeAnalysis.SameExtension
	similarSizes := group.SizeAnalysis != nil && group.SizeAnalysis.SimilarSizes
	sameDirectory := group.PathAnalysis != nil && group.PathAnalysis.SameDirectory

	switch {
	case sameExtension && similarSizes:
		return domain.RelationshipLikelyVersions
	case !sameExtension:
		return domain.RelationshipFormatVariants
	case group.AvgSimilarity > 0.98:
		return domain.RelationshipCopiedFiles
	case sameDirectory && group.AvgSimilarity > 0.95:
		return domain.RelationshipNearDuplicates
	case group.AvgSimilarity > 0.85:
		return domain.RelationshipRelatedContent
	default:
		return domain.RelationshipSimilarContent
	}
}

// commonDirectory finds the longest shared path prefix, component-wise.
func commonDirectory(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	split := func(p string) []string {
		return strings.FieldsFunc(p, func(r rune) bool {
			return r == '/' || r == '\\'
		})
	}

	common := split(paths[0])
	for _, p := range paths[1:] {
		parts := split(p)
		if len(parts) < len(common) {
			common = common[:len(parts)]
		}
		for i := range common {
			if parts[i] != common[i] {
				common = common[:i]
				break
			}
		}
	}

	return strings.Join(common, string(filepath.Separator))
}

// FindNearDuplicates runs the analysis at a temporarily raised threshold
// (default 0.95) and keeps only groups at or above it.
func (a *SimilarityAnalyzer) FindNearDuplicates(
	docs []domain.DocumentRecord, embeddings map[string][]float32, threshold float64,
) []domain.DuplicateGroup {
	if threshold <= 0 {
		threshold = 0.95
	}

	original := a.similarityThreshold
	a.similarityThreshold = threshold
	defer func() { a.similarityThreshold = original }()

	result := a.FindSimilarDocuments(docs, embeddings)

	var near []domain.DuplicateGroup
	for _, group := range result.SimilarityGroups {
		if group.AvgSimilarity >= threshold {
			near = append(near, group)
		}
	}
	return near
}

// FindContentVariants returns similarity groups whose members differ in
// extension or diverge in size - the same content in different forms.
func (a *SimilarityAnalyzer) FindContentVariants(
	docs []domain.DocumentRecord, embeddings map[string][]float32,
) []domain.DuplicateGroup {
	result := a.FindSimilarDocuments(docs, embeddings)

	var variants []domain.DuplicateGroup
	for _, group := range result.SimilarityGroups {
		mixedExtensions := group.FileTypeAnalysis != nil && !group.FileTypeAnalysis.SameExtension
		divergentSizes := group.SizeAnalysis != nil && !group.SizeAnalysis.SimilarSizes
		if mixedExtensions || divergentSizes {
			variant := group
			variant.Type = domain.GroupTypeContentVariants
			variants = append(variants, variant)
		}
	}
	return variants
}

// SimilarityRecommendations proposes actions per group based on its
// relationship type.
func (a *SimilarityAnalyzer) SimilarityRecommendations(result *domain.SimilarityDetectionResult) []domain.Recommendation {
	var recommendations []domain.Recommendation

	for _, group := range result.SimilarityGroups {
		rec := domain.Recommendation{
			GroupID:          group.GroupID,
			RelationshipType: group.RelationshipType,
			Documents:        group.Documents,
			AvgSimilarity:    group.AvgSimilarity,
		}

		switch group.RelationshipType {
		case domain.RelationshipNearDuplicates:
			rec.Action = domain.ActionReviewForDeletion
			rec.Reasoning = "Documents are nearly identical and may be duplicates"
			rec.Priority = domain.PriorityHigh
		case domain.RelationshipLikelyVersions:
			rec.Action = domain.ActionConsolidateVersions
			rec.Reasoning = "Documents appear to be different versions of the same content"
			rec.Priority = domain.PriorityMedium
		case domain.RelationshipFormatVariants:
			rec.Action = domain.ActionChoosePreferredFormat
			rec.Reasoning = "Same content in different file formats"
			rec.Priority = domain.PriorityMedium
		case domain.RelationshipCopiedFiles:
			rec.Action = domain.ActionRemoveCopies
			rec.Reasoning = "Documents appear to be copies in different locations"
			rec.Priority = domain.PriorityHigh
		default:
			rec.Action = domain.ActionReviewRelationship
			rec.Reasoning = "Documents have similar content and should be reviewed"
			rec.Priority = domain.PriorityLow
		}

		recommendations = append(recommendations, rec)
	}

	return recommendations
}

// Statistics returns the per-run counters.
func (a *SimilarityAnalyzer) Statistics() domain.SimilarityStatistics {
	return domain.SimilarityStatistics{
		DocumentsProcessed:    a.documentsProcessed,
		SimilarityGroupsFound: a.similarityGroupsFound,
		ComparisonsMade:       a.comparisonsMade,
	}
}

// ResetStatistics clears the per-run counters.
func (a *SimilarityAnalyzer) ResetStatistics() {
	a.documentsProcessed = 0
	a.similarityGroupsFound = 0
	a.comparisonsMade = 0
}

func minFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
