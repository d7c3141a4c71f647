package services

import (
	"fmt"
	"sort"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/logger"
)

// HashDuplicateDetector finds exact duplicates by content digest.
//
// SHA-256 is the primary method with optional MD5 fallback. File size is
// used as a secondary signal: documents sharing a size but not a hash are
// flagged as potential duplicates that metadata differences may be hiding.
type HashDuplicateDetector struct {
	algorithm  domain.HashAlgorithm
	keepPolicy KeepPreferencePolicy

	// Per-run statistics, reset explicitly between runs.
	documentsProcessed   int
	duplicateGroupsFound int
	totalDuplicates      int
}

// NewHashDuplicateDetector creates a hash duplicate detector.
func NewHashDuplicateDetector(cfg domain.DetectionConfig) *HashDuplicateDetector {
	return &HashDuplicateDetector{
		algorithm:  cfg.HashAlgorithm,
		keepPolicy: DefaultKeepPreferencePolicy(),
	}
}

// SetKeepPolicy overrides the keep-preference scoring policy.
func (d *HashDuplicateDetector) SetKeepPolicy(p KeepPreferencePolicy) {
	d.keepPolicy = p
}

// FindHashDuplicates groups documents by content digest and by size.
// Documents without a hash are skipped from hash grouping; that is not
// an error, just a missing signal.
func (d *HashDuplicateDetector) FindHashDuplicates(docs []domain.DocumentRecord) *domain.HashDetectionResult {
	logger.Info("Finding hash duplicates for %d documents", len(docs))

	hashGroups := make(map[string][]*domain.DocumentRecord)
	sizeGroups := make(map[int64][]*domain.DocumentRecord)
	var hashOrder []string

	for i := range docs {
		doc := &docs[i]
		d.documentsProcessed++

		if doc.Size > 0 {
			sizeGroups[doc.Size] = append(sizeGroups[doc.Size], doc)
		}

		hashValue := doc.Hash(d.algorithm)
		if hashValue == "" {
			continue
		}
		if _, seen := hashGroups[hashValue]; !seen {
			hashOrder = append(hashOrder, hashValue)
		}
		hashGroups[hashValue] = append(hashGroups[hashValue], doc)
	}

	var duplicateGroups []domain.DuplicateGroup
	hashDuplicates := make(map[string]string)

	// Iterate in first-seen order so group IDs are deterministic.
	for _, hashValue := range hashOrder {
		members := hashGroups[hashValue]
		if len(members) < 2 {
			continue
		}

		groupID := fmt.Sprintf("hash_%d", len(duplicateGroups))
		group := domain.DuplicateGroup{
			GroupID:       groupID,
			Type:          domain.GroupTypeExactHash,
			Hash:          hashValue,
			Algorithm:     d.algorithm.String(),
			DocumentCount: len(members),
			Documents:     summarise(members),
		}
		for i, doc := range members {
			group.TotalSize += doc.Size
			if i > 0 {
				// All but the first member count as wasted space. The
				// first is provisionally "kept"; actual keep selection
				// happens in the recommendation pass.
				group.WastedSpace += doc.Size
			}
			hashDuplicates[doc.ID()] = groupID
		}

		duplicateGroups = append(duplicateGroups, group)
		d.duplicateGroupsFound++
		d.totalDuplicates += len(members) - 1
	}

	sizeDuplicates := d.findSizeDuplicates(sizeGroups, hashDuplicates)

	var totalWasted int64
	for _, g := range duplicateGroups {
		totalWasted += g.WastedSpace
	}

	logger.Debug("Hash detection: %d groups, %d size-only groups",
		len(duplicateGroups), len(sizeDuplicates))

	return &domain.HashDetectionResult{
		Method:          "hash_based",
		Algorithm:       d.algorithm.String(),
		DuplicateGroups: duplicateGroups,
		HashDuplicates:  hashDuplicates,
		SizeDuplicates:  sizeDuplicates,
		Statistics: domain.HashStatistics{
			DocumentsProcessed:   d.documentsProcessed,
			DuplicateGroupsFound: d.duplicateGroupsFound,
			TotalDuplicates:      d.totalDuplicates,
			TotalWastedSpace:     totalWasted,
			UniqueHashes:         len(hashGroups),
			UniqueSizes:          len(sizeGroups),
		},
	}
}

// findSizeDuplicates flags documents sharing a size but not already
// claimed by a hash group, split by hash into subgroups. A size group is
// only reported when at least two distinct hashes share the size.
func (d *HashDuplicateDetector) findSizeDuplicates(
	sizeGroups map[int64][]*domain.DocumentRecord, hashDuplicates map[string]string,
) []domain.DuplicateGroup {
	sizes := make([]int64, 0, len(sizeGroups))
	for size := range sizeGroups {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	var sizeDuplicateGroups []domain.DuplicateGroup

	for _, size := range sizes {
		members := sizeGroups[size]
		if len(members) < 2 {
			continue
		}

		var filtered []*domain.DocumentRecord
		for _, doc := range members {
			if _, claimed := hashDuplicates[doc.ID()]; !claimed {
				filtered = append(filtered, doc)
			}
		}
		if len(filtered) < 2 {
			continue
		}

		subgroups := make(map[string]int)
		for _, doc := range filtered {
			subgroups[doc.Hash(d.algorithm)]++
		}
		if len(subgroups) < 2 {
			continue
		}

		sizeDuplicateGroups = append(sizeDuplicateGroups, domain.DuplicateGroup{
			GroupID:       fmt.Sprintf("size_%d", len(sizeDuplicateGroups)),
			Type:          domain.GroupTypeSameSize,
			Size:          size,
			DocumentCount: len(filtered),
			HashSubgroups: len(subgroups),
			Documents:     summarise(filtered),
		})
	}

	return sizeDuplicateGroups
}

// FindZeroByteFiles returns every empty file in the collection.
func (d *HashDuplicateDetector) FindZeroByteFiles(docs []domain.DocumentRecord) []domain.DocumentSummary {
	var empty []domain.DocumentSummary
	for i := range docs {
		if docs[i].Size == 0 {
			empty = append(empty, docs[i].Summary())
		}
	}
	return empty
}

// FindLargeDuplicates finds duplicate groups among files at or above
// minSizeMB, for surfacing the duplicates that waste significant space.
func (d *HashDuplicateDetector) FindLargeDuplicates(docs []domain.DocumentRecord, minSizeMB float64) []domain.DuplicateGroup {
	minSize := int64(minSizeMB * 1024 * 1024)

	var large []domain.DocumentRecord
	for i := range docs {
		if docs[i].Size >= minSize {
			large = append(large, docs[i])
		}
	}
	if len(large) == 0 {
		return nil
	}

	result := d.FindHashDuplicates(large)

	var groups []domain.DuplicateGroup
	for _, g := range result.DuplicateGroups {
		if g.TotalSize >= minSize {
			groups = append(groups, g)
		}
	}
	return groups
}

// GenerateDeletionRecommendations proposes which member of each exact
// group should be kept. Members are scored by the keep-preference policy;
// the highest-scoring document wins, the rest become delete candidates.
func (d *HashDuplicateDetector) GenerateDeletionRecommendations(result *domain.HashDetectionResult) []domain.Recommendation {
	var recommendations []domain.Recommendation

	for _, group := range result.DuplicateGroups {
		if len(group.Documents) < 2 {
			continue
		}

		sorted := d.keepPolicy.SortByPreference(group.Documents)
		keep := sorted[0]
		remove := sorted[1:]

		var saved int64
		for _, doc := range remove {
			saved += doc.Size
		}

		recommendations = append(recommendations, domain.Recommendation{
			GroupID:         group.GroupID,
			Action:          domain.ActionDeleteDuplicates,
			KeepDocument:    &keep,
			DeleteDocuments: remove,
			SpaceSaved:      saved,
			SpaceSavedMB:    float64(saved) / (1024 * 1024),
			Reasoning:       d.keepPolicy.KeepReasoning(keep, remove),
		})
	}

	return recommendations
}

// DuplicateSummary digests a hash-detection result: the largest group,
// the most wasteful group, and the per-extension waste distribution.
func (d *HashDuplicateDetector) DuplicateSummary(result *domain.HashDetectionResult) domain.DuplicateSummary {
	summary := domain.DuplicateSummary{
		TotalDuplicateGroups: len(result.DuplicateGroups),
		FileTypeDistribution: make(map[string]domain.FileTypeWaste),
	}

	for _, group := range result.DuplicateGroups {
		summary.TotalDuplicateFiles += group.DocumentCount - 1
		summary.TotalWastedSpace += group.WastedSpace

		if summary.LargestGroup == nil || group.DocumentCount > summary.LargestGroup.DocumentCount {
			summary.LargestGroup = &domain.GroupDigest{
				GroupID:       group.GroupID,
				DocumentCount: group.DocumentCount,
				WastedSpaceMB: float64(group.WastedSpace) / (1024 * 1024),
			}
		}
		if summary.MostWastedGroup == nil ||
			group.WastedSpace > int64(summary.MostWastedGroup.WastedSpaceMB*1024*1024) {
			summary.MostWastedGroup = &domain.GroupDigest{
				GroupID:       group.GroupID,
				DocumentCount: group.DocumentCount,
				WastedSpaceMB: float64(group.WastedSpace) / (1024 * 1024),
			}
		}

		for _, doc := range group.Documents {
			waste := summary.FileTypeDistribution[doc.FileExtension]
			waste.Count++
			waste.WastedSpace += doc.Size
			summary.FileTypeDistribution[doc.FileExtension] = waste
		}
	}

	summary.TotalWastedSpaceMB = float64(summary.TotalWastedSpace) / (1024 * 1024)
	return summary
}

// Statistics returns the per-run counters.
func (d *HashDuplicateDetector) Statistics() domain.HashStatistics {
	return domain.HashStatistics{
		DocumentsProcessed:   d.documentsProcessed,
		DuplicateGroupsFound: d.duplicateGroupsFound,
		TotalDuplicates:      d.totalDuplicates,
	}
}

// ResetStatistics clears the per-run counters.
func (d *HashDuplicateDetector) ResetStatistics() {
	d.documentsProcessed = 0
	d.duplicateGroupsFound = 0
	d.totalDuplicates = 0
}

// summarise converts records to their result projections.
func summarise(docs []*domain.DocumentRecord) []domain.DocumentSummary {
	summaries := make([]domain.DocumentSummary, len(docs))
	for i, doc := range docs {
		summaries[i] = doc.Summary()
	}
	return summaries
}
