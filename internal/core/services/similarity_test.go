package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
)

// stubBackend returns canned similarity and cluster results so the
// analyzer's grouping logic can be tested without a real backend.
type stubBackend struct {
	matrix [][]float64
	labels []int
}

func (s *stubBackend) PairwiseSimilarity(_ [][]float32) [][]float64 {
	return s.matrix
}

func (s *stubBackend) Cluster(_ [][]float64, _ float64, _ int) []int {
	return s.labels
}

func embeddingsFor(docs []domain.DocumentRecord) map[string][]float32 {
	embeddings := make(map[string][]float32, len(docs))
	for i := range docs {
		embeddings[docs[i].ID()] = []float32{1, 0, 0}
	}
	return embeddings
}

func TestNewSimilarityAnalyzer_NilBackend(t *testing.T) {
	_, err := NewSimilarityAnalyzer(domain.DefaultDetectionConfig(), nil)
	assert.ErrorIs(t, err, domain.ErrSimilarityUnavailable)
}

func TestSimilarityAnalyzer_FindSimilarDocuments_NoEmbeddings(t *testing.T) {
	analyzer, err := NewSimilarityAnalyzer(domain.DefaultDetectionConfig(), &stubBackend{})
	require.NoError(t, err)

	docs := []domain.DocumentRecord{
		testDoc("a.txt", "/a.txt", 100, hashOf("a")),
	}

	result := analyzer.FindSimilarDocuments(docs, nil)
	assert.Empty(t, result.SimilarityGroups)
	assert.Equal(t, "semantic_similarity", result.Method)
}

func TestSimilarityAnalyzer_FindSimilarDocuments_GroupsCluster(t *testing.T) {
	docs := []domain.DocumentRecord{
		testDoc("a.txt", "/docs/a.txt", 1000, hashOf("a")),
		testDoc("b.txt", "/docs/b.txt", 1010, hashOf("b")),
		testDoc("c.txt", "/docs/c.txt", 9999, hashOf("c")),
	}

	backend := &stubBackend{
		matrix: [][]float64{
			{1.00, 0.97, 0.10},
			{0.97, 1.00, 0.12},
			{0.10, 0.12, 1.00},
		},
		labels: []int{0, 0, -1},
	}

	analyzer, err := NewSimilarityAnalyzer(domain.DefaultDetectionConfig(), backend)
	require.NoError(t, err)

	result := analyzer.FindSimilarDocuments(docs, embeddingsFor(docs))
	require.Len(t, result.SimilarityGroups, 1)

	group := result.SimilarityGroups[0]
	assert.Equal(t, "sim_0", group.GroupID)
	assert.Equal(t, domain.GroupTypeSemanticSimilarity, group.Type)
	assert.Equal(t, 2, group.DocumentCount)
	assert.InDelta(t, 0.97, group.AvgSimilarity, 1e-9)
	assert.InDelta(t, 0.97, group.MinSimilarity, 1e-9)
	assert.InDelta(t, 0.97, group.MaxSimilarity, 1e-9)

	assert.Equal(t, 3, result.MatrixSize)
	assert.Equal(t, 3, result.Statistics.ComparisonsMade)
	assert.Equal(t, 1, result.Statistics.SimilarityGroupsFound)
}

func TestSimilarityAnalyzer_FindSimilarDocuments_NoiseDiscarded(t *testing.T) {
	docs := []domain.DocumentRecord{
		testDoc("a.txt", "/a.txt", 100, hashOf("a")),
		testDoc("b.txt", "/b.txt", 200, hashOf("b")),
	}

	backend := &stubBackend{
		matrix: [][]float64{
			{1.0, 0.2},
			{0.2, 1.0},
		},
		labels: []int{-1, -1},
	}

	analyzer, err := NewSimilarityAnalyzer(domain.DefaultDetectionConfig(), backend)
	require.NoError(t, err)

	result := analyzer.FindSimilarDocuments(docs, embeddingsFor(docs))
	assert.Empty(t, result.SimilarityGroups)
}

func TestSimilarityAnalyzer_AnalyseSizes_SpreadTolerance(t *testing.T) {
	analyzer, err := NewSimilarityAnalyzer(domain.DefaultDetectionConfig(), &stubBackend{})
	require.NoError(t, err)

	// 60-byte spread over a 1030 mean is 5.8%, beyond the 5% tolerance.
	wide := []domain.DocumentRecord{
		testDoc("a.txt", "/a.txt", 1000, ""),
		testDoc("b.txt", "/b.txt", 1060, ""),
	}
	analysis := analyzer.analyseSizes([]*domain.DocumentRecord{&wide[0], &wide[1]})
	assert.False(t, analysis.SimilarSizes)
	assert.Equal(t, int64(1000), analysis.MinSize)
	assert.Equal(t, int64(1060), analysis.MaxSize)

	narrow := []domain.DocumentRecord{
		testDoc("a.txt", "/a.txt", 1000, ""),
		testDoc("b.txt", "/b.txt", 1040, ""),
	}
	analysis = analyzer.analyseSizes([]*domain.DocumentRecord{&narrow[0], &narrow[1]})
	assert.True(t, analysis.SimilarSizes)
}

func TestClassifyRelationship_RuleOrder(t *testing.T) {
	group := func(sameExt, similarSizes, sameDir bool, avgSim float64) *domain.DuplicateGroup {
		return &domain.DuplicateGroup{
			AvgSimilarity:    avgSim,
			FileTypeAnalysis: &domain.FileTypeAnalysis{SameExtension: sameExt},
			SizeAnalysis:     &domain.SizeAnalysis{SimilarSizes: similarSizes},
			PathAnalysis:     &domain.PathAnalysis{SameDirectory: sameDir},
		}
	}

	tests := []struct {
		name     string
		group    *domain.DuplicateGroup
		expected domain.RelationshipType
	}{
		{"same ext and similar sizes", group(true, true, false, 0.90), domain.RelationshipLikelyVersions},
		{"different extensions", group(false, true, false, 0.99), domain.RelationshipFormatVariants},
		{"very high similarity", group(true, false, false, 0.99), domain.RelationshipCopiedFiles},
		{"same dir high similarity", group(true, false, true, 0.96), domain.RelationshipNearDuplicates},
		{"moderately similar", group(true, false, false, 0.86), domain.RelationshipRelatedContent},
		{"weakly similar", group(true, false, false, 0.80), domain.RelationshipSimilarContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyRelationship(tt.group))
		})
	}
}

func TestCommonDirectory(t *testing.T) {
	paths := []string{
		"/share/projects/alpha/report.pdf",
		"/share/projects/beta/report.pdf",
	}
	assert.Equal(t, "share/projects", commonDirectory(paths))

	assert.Equal(t, "", commonDirectory([]string{"/a/x.txt", "/b/y.txt"}))
	assert.Equal(t, "", commonDirectory(nil))
}

func TestSimilarityAnalyzer_FindNearDuplicates(t *testing.T) {
	docs := []domain.DocumentRecord{
		testDoc("a.txt", "/docs/a.txt", 1000, hashOf("a")),
		testDoc("b.txt", "/docs/b.txt", 1002, hashOf("b")),
	}

	backend := &stubBackend{
		matrix: [][]float64{
			{1.00, 0.97},
			{0.97, 1.00},
		},
		labels: []int{0, 0},
	}

	analyzer, err := NewSimilarityAnalyzer(domain.DefaultDetectionConfig(), backend)
	require.NoError(t, err)

	near := analyzer.FindNearDuplicates(docs, embeddingsFor(docs), 0.95)
	require.Len(t, near, 1)
	assert.InDelta(t, 0.97, near[0].AvgSimilarity, 1e-9)

	// The raised threshold is restored afterwards.
	assert.InDelta(t, 0.9, analyzer.similarityThreshold, 1e-9)

	none := analyzer.FindNearDuplicates(docs, embeddingsFor(docs), 0.99)
	assert.Empty(t, none)
}

func TestSimilarityAnalyzer_FindContentVariants(t *testing.T) {
	docs := []domain.DocumentRecord{
		testDoc("report.pdf", "/docs/report.pdf", 1000, hashOf("a")),
		testDoc("report.docx", "/docs/report.docx", 3000, hashOf("b")),
	}

	backend := &stubBackend{
		matrix: [][]float64{
			{1.00, 0.93},
			{0.93, 1.00},
		},
		labels: []int{0, 0},
	}

	analyzer, err := NewSimilarityAnalyzer(domain.DefaultDetectionConfig(), backend)
	require.NoError(t, err)

	variants := analyzer.FindContentVariants(docs, embeddingsFor(docs))
	require.Len(t, variants, 1)
	assert.Equal(t, domain.GroupTypeContentVariants, variants[0].Type)
}

func TestSimilarityAnalyzer_SimilarityRecommendations(t *testing.T) {
	analyzer, err := NewSimilarityAnalyzer(domain.DefaultDetectionConfig(), &stubBackend{})
	require.NoError(t, err)

	result := &domain.SimilarityDetectionResult{
		SimilarityGroups: []domain.DuplicateGroup{
			{GroupID: "sim_0", RelationshipType: domain.RelationshipNearDuplicates, AvgSimilarity: 0.97},
			{GroupID: "sim_1", RelationshipType: domain.RelationshipLikelyVersions, AvgSimilarity: 0.91},
			{GroupID: "sim_2", RelationshipType: domain.RelationshipFormatVariants, AvgSimilarity: 0.92},
			{GroupID: "sim_3", RelationshipType: domain.RelationshipCopiedFiles, AvgSimilarity: 0.99},
			{GroupID: "sim_4", RelationshipType: domain.RelationshipSimilarContent, AvgSimilarity: 0.80},
		},
	}

	recs := analyzer.SimilarityRecommendations(result)
	require.Len(t, recs, 5)

	assert.Equal(t, domain.ActionReviewForDeletion, recs[0].Action)
	assert.Equal(t, domain.PriorityHigh, recs[0].Priority)
	assert.Equal(t, domain.ActionConsolidateVersions, recs[1].Action)
	assert.Equal(t, domain.ActionChoosePreferredFormat, recs[2].Action)
	assert.Equal(t, domain.ActionRemoveCopies, recs[3].Action)
	assert.Equal(t, domain.PriorityHigh, recs[3].Priority)
	assert.Equal(t, domain.ActionReviewRelationship, recs[4].Action)
	assert.Equal(t, domain.PriorityLow, recs[4].Priority)
}
