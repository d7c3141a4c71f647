package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSimilarityUnavailable indicates no similarity backend is configured.
	// The similarity analyzer cannot be constructed without one.
	ErrSimilarityUnavailable = errors.New("similarity backend unavailable")

	// ErrFuzzyUnavailable indicates no fuzzy filename matcher is configured.
	// The fuzzy fallback pass is skipped without one.
	ErrFuzzyUnavailable = errors.New("fuzzy matcher unavailable")

	// ErrInventoryUnavailable indicates the document inventory cannot be read.
	ErrInventoryUnavailable = errors.New("inventory unavailable")
)
