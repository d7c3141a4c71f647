package domain

// HashAlgorithm selects which content digest drives exact-duplicate grouping.
type HashAlgorithm string

// Available hash algorithms.
const (
	// HashAlgorithmSHA256 uses SHA-256 digests (default).
	HashAlgorithmSHA256 HashAlgorithm = "sha256"

	// HashAlgorithmMD5 uses MD5 digests.
	HashAlgorithmMD5 HashAlgorithm = "md5"

	// HashAlgorithmAuto prefers SHA-256 and falls back to MD5 per document.
	HashAlgorithmAuto HashAlgorithm = "auto"
)

// IsValid returns true if the algorithm is recognised.
func (a HashAlgorithm) IsValid() bool {
	switch a {
	case HashAlgorithmSHA256, HashAlgorithmMD5, HashAlgorithmAuto:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (a HashAlgorithm) String() string {
	return string(a)
}

// DetectionConfig holds all duplicate-detection settings with defaults
// resolved once at construction. Detectors read named fields only; there
// is no dynamic lookup.
type DetectionConfig struct {
	// HashAlgorithm drives exact-duplicate grouping.
	HashAlgorithm HashAlgorithm `json:"hash_algorithm" toml:"hash_algorithm"`

	// ContentSimilarityThreshold is the minimum cosine similarity for two
	// documents to land in the same semantic group.
	ContentSimilarityThreshold float64 `json:"content_similarity_threshold" toml:"content_similarity_threshold"`

	// FilenameSimilarityThreshold is the minimum string-similarity ratio
	// for the fuzzy filename fallback pass.
	FilenameSimilarityThreshold float64 `json:"filename_similarity_threshold" toml:"filename_similarity_threshold"`

	// SizeTolerance is the allowed fractional deviation from the group's
	// mean size for sizes to count as "similar".
	SizeTolerance float64 `json:"size_tolerance" toml:"size_tolerance"`

	// EnableFuzzyMatching toggles the fuzzy filename fallback pass.
	EnableFuzzyMatching bool `json:"enable_fuzzy_matching" toml:"enable_fuzzy_matching"`

	// EnableHashDetection toggles the exact-duplicate stage.
	EnableHashDetection bool `json:"enable_hash_detection" toml:"enable_hash_detection"`

	// EnableSimilarityAnalysis toggles the semantic-similarity stage.
	EnableSimilarityAnalysis bool `json:"enable_similarity_analysis" toml:"enable_similarity_analysis"`

	// EnableVersionDetection toggles the filename-version stage.
	EnableVersionDetection bool `json:"enable_version_detection" toml:"enable_version_detection"`
}

// DefaultDetectionConfig returns the configuration defaults.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		HashAlgorithm:               HashAlgorithmSHA256,
		ContentSimilarityThreshold:  0.9,
		FilenameSimilarityThreshold: 0.8,
		SizeTolerance:               0.05,
		EnableFuzzyMatching:         true,
		EnableHashDetection:         true,
		EnableSimilarityAnalysis:    true,
		EnableVersionDetection:      true,
	}
}

// Normalise fills zero values with defaults and repairs invalid fields.
// Thresholds outside (0, 1] fall back to their defaults.
func (c DetectionConfig) Normalise() DetectionConfig {
	def := DefaultDetectionConfig()
	if !c.HashAlgorithm.IsValid() {
		c.HashAlgorithm = def.HashAlgorithm
	}
	if c.ContentSimilarityThreshold <= 0 || c.ContentSimilarityThreshold > 1 {
		c.ContentSimilarityThreshold = def.ContentSimilarityThreshold
	}
	if c.FilenameSimilarityThreshold <= 0 || c.FilenameSimilarityThreshold > 1 {
		c.FilenameSimilarityThreshold = def.FilenameSimilarityThreshold
	}
	if c.SizeTolerance <= 0 || c.SizeTolerance >= 1 {
		c.SizeTolerance = def.SizeTolerance
	}
	return c
}
