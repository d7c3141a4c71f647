package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
)

func hashOf(seed string) string {
	return strings.Repeat(seed, 64/len(seed))
}

func testDoc(filename, path string, size int64, sha256 string) domain.DocumentRecord {
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = strings.ToLower(filename[idx:])
	}
	return domain.DocumentRecord{
		Filename:      filename,
		Path:          path,
		Size:          size,
		FileExtension: ext,
		SHA256Hash:    sha256,
	}
}

func withModified(doc domain.DocumentRecord, t time.Time) domain.DocumentRecord {
	doc.ModifiedDate = &t
	return doc
}

func TestHashDuplicateDetector_FindHashDuplicates_GroupsByHash(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	shared := hashOf("a")
	docs := []domain.DocumentRecord{
		testDoc("report.pdf", "/docs/report.pdf", 1000, shared),
		testDoc("report_copy.pdf", "/backup/report_copy.pdf", 1000, shared),
		testDoc("other.pdf", "/docs/other.pdf", 500, hashOf("b")),
	}

	result := detector.FindHashDuplicates(docs)
	require.Len(t, result.DuplicateGroups, 1)

	group := result.DuplicateGroups[0]
	assert.Equal(t, "hash_0", group.GroupID)
	assert.Equal(t, domain.GroupTypeExactHash, group.Type)
	assert.Equal(t, 2, group.DocumentCount)
	assert.Equal(t, int64(2000), group.TotalSize)
	assert.Equal(t, int64(1000), group.WastedSpace)

	// Exact duplicates share a content-derived ID, so the map carries
	// one entry per distinct content. The singleton does not appear.
	assert.Len(t, result.HashDuplicates, 1)
	assert.Equal(t, "hash_0", result.HashDuplicates[docs[0].ID()])
	assert.NotContains(t, result.HashDuplicates, docs[2].ID())
}

func TestHashDuplicateDetector_FindHashDuplicates_NoDuplicates(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	docs := []domain.DocumentRecord{
		testDoc("a.txt", "/a.txt", 100, hashOf("a")),
		testDoc("b.txt", "/b.txt", 200, hashOf("b")),
	}

	result := detector.FindHashDuplicates(docs)
	assert.Empty(t, result.DuplicateGroups)
	assert.Empty(t, result.HashDuplicates)
	assert.Equal(t, 2, result.Statistics.DocumentsProcessed)
	assert.Equal(t, int64(0), result.Statistics.TotalWastedSpace)
}

func TestHashDuplicateDetector_FindHashDuplicates_SkipsUnhashed(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	docs := []domain.DocumentRecord{
		testDoc("a.txt", "/a.txt", 100, ""),
		testDoc("b.txt", "/b.txt", 100, ""),
	}

	result := detector.FindHashDuplicates(docs)
	assert.Empty(t, result.DuplicateGroups)
}

func TestHashDuplicateDetector_FindHashDuplicates_EmptyInput(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	result := detector.FindHashDuplicates(nil)
	assert.Empty(t, result.DuplicateGroups)
	assert.Empty(t, result.SizeDuplicates)
	assert.Equal(t, 0, result.Statistics.DocumentsProcessed)
}

func TestHashDuplicateDetector_FindHashDuplicates_DeterministicGroupIDs(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	docs := []domain.DocumentRecord{
		testDoc("a1.txt", "/a1.txt", 10, hashOf("a")),
		testDoc("b1.txt", "/b1.txt", 20, hashOf("b")),
		testDoc("a2.txt", "/a2.txt", 10, hashOf("a")),
		testDoc("b2.txt", "/b2.txt", 20, hashOf("b")),
	}

	result := detector.FindHashDuplicates(docs)
	require.Len(t, result.DuplicateGroups, 2)

	// Groups come out in first-seen hash order.
	assert.Equal(t, "hash_0", result.DuplicateGroups[0].GroupID)
	assert.Equal(t, hashOf("a"), result.DuplicateGroups[0].Hash)
	assert.Equal(t, "hash_1", result.DuplicateGroups[1].GroupID)
	assert.Equal(t, hashOf("b"), result.DuplicateGroups[1].Hash)
}

func TestHashDuplicateDetector_SizeDuplicates(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	// Same size, different content. Not exact duplicates, but worth
	// flagging as potential metadata-masked copies.
	docs := []domain.DocumentRecord{
		testDoc("a.docx", "/a.docx", 4096, hashOf("a")),
		testDoc("b.docx", "/b.docx", 4096, hashOf("b")),
	}

	result := detector.FindHashDuplicates(docs)
	assert.Empty(t, result.DuplicateGroups)
	require.Len(t, result.SizeDuplicates, 1)

	group := result.SizeDuplicates[0]
	assert.Equal(t, "size_0", group.GroupID)
	assert.Equal(t, domain.GroupTypeSameSize, group.Type)
	assert.Equal(t, int64(4096), group.Size)
	assert.Equal(t, 2, group.HashSubgroups)
}

func TestHashDuplicateDetector_SizeDuplicates_ExcludesHashClaimed(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	// Exact duplicates share a size by definition; they must not be
	// double-reported as size duplicates.
	shared := hashOf("a")
	docs := []domain.DocumentRecord{
		testDoc("a.txt", "/a.txt", 100, shared),
		testDoc("b.txt", "/b.txt", 100, shared),
	}

	result := detector.FindHashDuplicates(docs)
	require.Len(t, result.DuplicateGroups, 1)
	assert.Empty(t, result.SizeDuplicates)
}

func TestHashDuplicateDetector_FindZeroByteFiles(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	docs := []domain.DocumentRecord{
		testDoc("empty.txt", "/empty.txt", 0, ""),
		testDoc("full.txt", "/full.txt", 100, hashOf("a")),
	}

	empty := detector.FindZeroByteFiles(docs)
	require.Len(t, empty, 1)
	assert.Equal(t, "empty.txt", empty[0].Filename)
}

func TestHashDuplicateDetector_FindLargeDuplicates(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	big := int64(5 * 1024 * 1024)
	docs := []domain.DocumentRecord{
		testDoc("video1.mp4", "/v1.mp4", big, hashOf("a")),
		testDoc("video2.mp4", "/v2.mp4", big, hashOf("a")),
		testDoc("note1.txt", "/n1.txt", 100, hashOf("b")),
		testDoc("note2.txt", "/n2.txt", 100, hashOf("b")),
	}

	groups := detector.FindLargeDuplicates(docs, 1)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(2*big), groups[0].TotalSize)
}

func TestHashDuplicateDetector_GenerateDeletionRecommendations(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	shared := hashOf("a")
	modified := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	docs := []domain.DocumentRecord{
		withModified(testDoc("report.pdf", "/temp/report.pdf", 1000, shared), modified),
		withModified(testDoc("report.pdf", "/docs/report.pdf", 1000, shared), modified),
	}

	result := detector.FindHashDuplicates(docs)
	recs := detector.GenerateDeletionRecommendations(result)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, domain.ActionDeleteDuplicates, rec.Action)
	require.NotNil(t, rec.KeepDocument)

	// The copy under /temp loses to the one in a permanent directory.
	assert.Equal(t, "/docs/report.pdf", rec.KeepDocument.Path)
	require.Len(t, rec.DeleteDocuments, 1)
	assert.Equal(t, "/temp/report.pdf", rec.DeleteDocuments[0].Path)
	assert.Equal(t, int64(1000), rec.SpaceSaved)
	assert.Contains(t, rec.Reasoning, "Keep this file")
}

func TestHashDuplicateDetector_DuplicateSummary(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	docs := []domain.DocumentRecord{
		testDoc("a1.pdf", "/a1.pdf", 1000, hashOf("a")),
		testDoc("a2.pdf", "/a2.pdf", 1000, hashOf("a")),
		testDoc("a3.pdf", "/a3.pdf", 1000, hashOf("a")),
		testDoc("b1.txt", "/b1.txt", 5000, hashOf("b")),
		testDoc("b2.txt", "/b2.txt", 5000, hashOf("b")),
	}

	result := detector.FindHashDuplicates(docs)
	summary := detector.DuplicateSummary(result)

	assert.Equal(t, 2, summary.TotalDuplicateGroups)
	assert.Equal(t, 3, summary.TotalDuplicateFiles)
	assert.Equal(t, int64(7000), summary.TotalWastedSpace)

	require.NotNil(t, summary.LargestGroup)
	assert.Equal(t, 3, summary.LargestGroup.DocumentCount)

	require.NotNil(t, summary.MostWastedGroup)
	assert.Equal(t, 2, summary.MostWastedGroup.DocumentCount)

	assert.Equal(t, 3, summary.FileTypeDistribution[".pdf"].Count)
	assert.Equal(t, 2, summary.FileTypeDistribution[".txt"].Count)
}

func TestKeepPreferencePolicy_Score(t *testing.T) {
	policy := DefaultKeepPreferencePolicy()
	modified := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	clean := withModified(testDoc("report.pdf", "/docs/report.pdf", 1000, ""), modified)
	tempPath := withModified(testDoc("report.pdf", "/temp/report.pdf", 1000, ""), modified)
	suspectName := withModified(testDoc("report_copy.pdf", "/docs/report_copy.pdf", 1000, ""), modified)
	deep := withModified(testDoc("report.pdf", "/docs/a/b/c/report.pdf", 1000, ""), modified)

	base := policy.Score(clean.Summary())
	assert.Less(t, policy.Score(tempPath.Summary()), base)
	assert.Less(t, policy.Score(suspectName.Summary()), base)
	assert.Less(t, policy.Score(deep.Summary()), base)
}

func TestKeepPreferencePolicy_Score_PrefersNewer(t *testing.T) {
	policy := DefaultKeepPreferencePolicy()

	older := withModified(testDoc("report.pdf", "/docs/report.pdf", 1000, ""),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := withModified(testDoc("report.pdf", "/docs/report.pdf", 1000, ""),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.Greater(t, policy.Score(newer.Summary()), policy.Score(older.Summary()))
}

func TestHashDuplicateDetector_ResetStatistics(t *testing.T) {
	detector := NewHashDuplicateDetector(domain.DefaultDetectionConfig())

	shared := hashOf("a")
	docs := []domain.DocumentRecord{
		testDoc("a.txt", "/a.txt", 100, shared),
		testDoc("b.txt", "/b.txt", 100, shared),
	}
	detector.FindHashDuplicates(docs)

	stats := detector.Statistics()
	assert.Equal(t, 2, stats.DocumentsProcessed)
	assert.Equal(t, 1, stats.DuplicateGroupsFound)

	detector.ResetStatistics()
	stats = detector.Statistics()
	assert.Equal(t, 0, stats.DocumentsProcessed)
	assert.Equal(t, 0, stats.DuplicateGroupsFound)
}
