package domain

// GroupType tags the detection method that produced a DuplicateGroup.
type GroupType string

// Available group types.
const (
	// GroupTypeExactHash marks groups of byte-identical documents.
	GroupTypeExactHash GroupType = "exact_hash"

	// GroupTypeSameSize marks documents sharing a size but not a hash.
	GroupTypeSameSize GroupType = "same_size"

	// GroupTypeSemanticSimilarity marks embedding-clustered groups.
	GroupTypeSemanticSimilarity GroupType = "semantic_similarity"

	// GroupTypeFilenameVersions marks filename-pattern version families.
	GroupTypeFilenameVersions GroupType = "filename_versions"

	// GroupTypeFuzzyFilename marks fuzzy-matched filename groups.
	GroupTypeFuzzyFilename GroupType = "fuzzy_filename_match"

	// GroupTypeContentVariants marks similarity groups re-tagged as
	// format/size variants of the same content.
	GroupTypeContentVariants GroupType = "content_variants"
)

// RelationshipType classifies what a semantic-similarity group most
// likely represents. The classification is heuristic; ties resolve in
// rule order, not by statistical weight.
type RelationshipType string

// Available relationship types.
const (
	RelationshipLikelyVersions RelationshipType = "likely_versions"
	RelationshipFormatVariants RelationshipType = "format_variants"
	RelationshipNearDuplicates RelationshipType = "near_duplicates"
	RelationshipCopiedFiles    RelationshipType = "copied_files"
	RelationshipRelatedContent RelationshipType = "related_content"
	RelationshipSimilarContent RelationshipType = "similar_content"
)

// DuplicateGroup is one set of documents flagged together by a single
// detection method. GroupID is scheme-local: unique within its method's
// result, not across methods. Every emitted group has DocumentCount >= 2;
// the same document may appear in groups of different types.
type DuplicateGroup struct {
	GroupID       string            `json:"group_id"`
	Type          GroupType         `json:"type"`
	DocumentCount int               `json:"document_count"`
	Documents     []DocumentSummary `json:"documents"`

	// Exact-hash fields.
	Hash        string `json:"hash,omitempty"`
	Algorithm   string `json:"algorithm,omitempty"`
	TotalSize   int64  `json:"total_size,omitempty"`
	WastedSpace int64  `json:"wasted_space,omitempty"`

	// Same-size fields.
	Size          int64 `json:"size,omitempty"`
	HashSubgroups int   `json:"hash_subgroups,omitempty"`

	// Semantic-similarity fields.
	DocumentIDs      []string          `json:"document_ids,omitempty"`
	AvgSimilarity    float64           `json:"avg_similarity,omitempty"`
	MinSimilarity    float64           `json:"min_similarity,omitempty"`
	MaxSimilarity    float64           `json:"max_similarity,omitempty"`
	SizeAnalysis     *SizeAnalysis     `json:"size_analysis,omitempty"`
	FileTypeAnalysis *FileTypeAnalysis `json:"file_type_analysis,omitempty"`
	TemporalAnalysis *TemporalAnalysis `json:"temporal_analysis,omitempty"`
	PathAnalysis     *PathAnalysis     `json:"path_analysis,omitempty"`
	ContentAnalysis  *ContentAnalysis  `json:"content_analysis,omitempty"`
	RelationshipType RelationshipType  `json:"relationship_type,omitempty"`

	// Filename-version fields.
	BaseName        string                      `json:"base_name,omitempty"`
	VersionAnalysis *VersionAnalysis            `json:"version_analysis,omitempty"`
	Timeline        []TimelineEntry             `json:"timeline,omitempty"`
	FilenameMatch   *FilenameSimilarityAnalysis `json:"similarity_analysis,omitempty"`
}

// SizeAnalysis summarises the byte sizes within a similarity group.
type SizeAnalysis struct {
	MinSize      int64   `json:"min_size"`
	MaxSize      int64   `json:"max_size"`
	AvgSize      float64 `json:"avg_size"`
	SizeVariance float64 `json:"size_variance"`
	SimilarSizes bool    `json:"similar_sizes"`
}

// FileTypeAnalysis summarises the extensions within a similarity group.
type FileTypeAnalysis struct {
	Extensions            []string       `json:"extensions"`
	SameExtension         bool           `json:"same_extension"`
	ExtensionDistribution map[string]int `json:"extension_distribution"`
}

// TemporalAnalysis summarises modification-date spread within a group.
type TemporalAnalysis struct {
	DateRangeDays int    `json:"date_range_days"`
	OldestFile    string `json:"oldest_file"`
	NewestFile    string `json:"newest_file"`
}

// PathAnalysis summarises where a group's members live.
type PathAnalysis struct {
	CommonDirectory       string         `json:"common_directory"`
	SameDirectory         bool           `json:"same_directory"`
	DirectoryDistribution map[string]int `json:"directory_distribution"`
}

// ContentAnalysis summarises extracted text lengths, when available.
type ContentAnalysis struct {
	MinLength      int     `json:"min_length"`
	MaxLength      int     `json:"max_length"`
	AvgLength      float64 `json:"avg_length"`
	LengthVariance float64 `json:"length_variance"`
}

// VersionAnalysis describes which versioning signals a group carries.
type VersionAnalysis struct {
	HasVersionNumbers bool   `json:"has_version_numbers"`
	HasDates          bool   `json:"has_dates"`
	HasCopyIndicators bool   `json:"has_copy_indicators"`
	VersionPattern    string `json:"version_pattern"`
}

// TimelineEntry is one document's position in a version group's ordering.
// Entries are sorted ascending by VersionScore, so the first entry is the
// likely original and the last the likely latest.
type TimelineEntry struct {
	Order            int      `json:"order"`
	Filename         string   `json:"filename"`
	VersionScore     float64  `json:"version_score"`
	IsLikelyOriginal bool     `json:"is_likely_original"`
	IsLikelyLatest   bool     `json:"is_likely_latest"`
	Indicators       []string `json:"indicators"`
	FileDate         string   `json:"file_date,omitempty"`
}

// FilenameSimilarityAnalysis summarises the stem similarities within a
// fuzzy filename group.
type FilenameSimilarityAnalysis struct {
	AvgSimilarity   float64  `json:"avg_similarity"`
	MinSimilarity   float64  `json:"min_similarity"`
	MaxSimilarity   float64  `json:"max_similarity"`
	FilenameLengths []int    `json:"filename_lengths"`
	CommonWords     []string `json:"common_words"`
}
