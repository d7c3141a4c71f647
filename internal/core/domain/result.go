package domain

// HashDetectionResult is the output of exact-duplicate detection.
type HashDetectionResult struct {
	Method          string            `json:"method"`
	Algorithm       string            `json:"algorithm"`
	DuplicateGroups []DuplicateGroup  `json:"duplicate_groups"`
	HashDuplicates  map[string]string `json:"hash_duplicates"`
	SizeDuplicates  []DuplicateGroup  `json:"size_duplicates"`
	Statistics      HashStatistics    `json:"statistics"`
}

// HashStatistics counts one exact-duplicate detection run.
type HashStatistics struct {
	DocumentsProcessed   int   `json:"documents_processed"`
	DuplicateGroupsFound int   `json:"duplicate_groups_found"`
	TotalDuplicates      int   `json:"total_duplicates"`
	TotalWastedSpace     int64 `json:"total_wasted_space"`
	UniqueHashes         int   `json:"unique_hashes"`
	UniqueSizes          int   `json:"unique_sizes"`
}

// SimilarityDetectionResult is the output of semantic-similarity analysis.
type SimilarityDetectionResult struct {
	Method              string               `json:"method"`
	SimilarityThreshold float64              `json:"similarity_threshold"`
	SimilarityGroups    []DuplicateGroup     `json:"similarity_groups"`
	MatrixSize          int                  `json:"similarity_matrix_size"`
	Statistics          SimilarityStatistics `json:"statistics"`
}

// SimilarityStatistics counts one similarity-analysis run.
type SimilarityStatistics struct {
	DocumentsProcessed    int     `json:"documents_processed"`
	SimilarityGroupsFound int     `json:"similarity_groups_found"`
	ComparisonsMade       int     `json:"comparisons_made"`
	AvgGroupSize          float64 `json:"avg_group_size"`
}

// VersionDetectionResult is the output of filename-version detection.
type VersionDetectionResult struct {
	Method        string            `json:"method"`
	VersionGroups []DuplicateGroup  `json:"version_groups"`
	Statistics    VersionStatistics `json:"statistics"`
}

// VersionStatistics counts one version-detection run.
type VersionStatistics struct {
	DocumentsProcessed  int `json:"documents_processed"`
	VersionGroupsFound  int `json:"version_groups_found"`
	FilenameComparisons int `json:"filename_comparisons"`
	BaseFilenameGroups  int `json:"base_filename_groups"`
}

// CombinedAnalysis reconciles the three detection methods' document sets.
// It is derived fresh on each run and never persisted.
type CombinedAnalysis struct {
	CrossMethodMatches []CrossMethodMatch `json:"cross_method_matches"`
	ConfidenceScores   map[string]float64 `json:"confidence_scores"`
	OverlapAnalysis    OverlapAnalysis    `json:"overlap_analysis"`
}

// OverlapAnalysis breaks down how the methods' document-ID sets intersect.
type OverlapAnalysis struct {
	AllThreeMethods      int `json:"all_three_methods"`
	HashAndSimilarity    int `json:"hash_and_similarity"`
	HashAndVersion       int `json:"hash_and_version"`
	SimilarityAndVersion int `json:"similarity_and_version"`
	HashOnly             int `json:"hash_only"`
	SimilarityOnly       int `json:"similarity_only"`
	VersionOnly          int `json:"version_only"`
}

// CrossMethodMatch is a document flagged by more than one method, with
// the per-method confidences averaged.
type CrossMethodMatch struct {
	DocumentID    string   `json:"document_id"`
	Methods       []string `json:"methods"`
	GroupIDs      []string `json:"group_ids"`
	AvgConfidence float64  `json:"avg_confidence"`
	MethodCount   int      `json:"method_count"`
}

// DetectionStatistics aggregates per-method counters for one full run.
type DetectionStatistics struct {
	TotalDocuments     int                  `json:"total_documents"`
	HashDetection      HashStatistics       `json:"hash_detection"`
	SimilarityAnalysis SimilarityStatistics `json:"similarity_analysis"`
	VersionDetection   VersionStatistics    `json:"version_detection"`
	CombinedTotals     CombinedTotals       `json:"combined_totals"`
}

// CombinedTotals sums group and duplicate counts across all methods.
type CombinedTotals struct {
	TotalDuplicateGroups int     `json:"total_duplicate_groups"`
	TotalDuplicateFiles  int     `json:"total_duplicate_files"`
	DuplicatePercentage  float64 `json:"duplicate_percentage"`
}

// DetectionResult is the complete output of one detection run. It is the
// sole contract with the reporting layer: maps, slices, and scalars only.
type DetectionResult struct {
	RunID           string                    `json:"run_id"`
	TotalDocuments  int                       `json:"total_documents"`
	HashDuplicates  HashDetectionResult       `json:"hash_duplicates"`
	Similarity      SimilarityDetectionResult `json:"similarity_duplicates"`
	Versions        VersionDetectionResult    `json:"version_groups"`
	Combined        CombinedAnalysis          `json:"combined_analysis"`
	Recommendations RecommendationSet         `json:"recommendations"`
	Statistics      DetectionStatistics       `json:"statistics"`
}

// DuplicateSummary is a high-level digest of a hash-detection result.
type DuplicateSummary struct {
	TotalDuplicateGroups int                      `json:"total_duplicate_groups"`
	TotalDuplicateFiles  int                      `json:"total_duplicate_files"`
	TotalWastedSpace     int64                    `json:"total_wasted_space_bytes"`
	TotalWastedSpaceMB   float64                  `json:"total_wasted_space_mb"`
	LargestGroup         *GroupDigest             `json:"largest_duplicate_group,omitempty"`
	MostWastedGroup      *GroupDigest             `json:"most_wasted_space_group,omitempty"`
	FileTypeDistribution map[string]FileTypeWaste `json:"file_type_distribution"`
}

// GroupDigest identifies one notable group within a summary.
type GroupDigest struct {
	GroupID       string  `json:"group_id"`
	DocumentCount int     `json:"document_count"`
	WastedSpaceMB float64 `json:"wasted_space_mb"`
}

// FileTypeWaste accumulates duplicate waste per file extension.
type FileTypeWaste struct {
	Count       int   `json:"count"`
	WastedSpace int64 `json:"wasted_space"`
}
