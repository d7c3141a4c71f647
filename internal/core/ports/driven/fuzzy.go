package driven

// FilenameMatcher scores how alike two filename stems are.
// This is an optional capability - when nil, the version detector skips
// its fuzzy filename fallback pass.
//
// Implementations may include:
//   - Edit-distance ratio (levenshtein, the default)
//   - Character-overlap ratio (weaker fallback, no dependencies)
type FilenameMatcher interface {
	// Ratio returns a similarity score in [0, 1] for two strings,
	// where 1 means identical.
	Ratio(a, b string) float64

	// Name identifies the matching strategy for diagnostics.
	Name() string
}
