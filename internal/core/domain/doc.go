// Package domain defines the core business entities for DocSweep.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: An immutable snapshot of one discovered file
//   - DuplicateGroup: A set of documents flagged by one detection method
//   - Recommendation: A prioritized keep/delete/consolidate action
//   - DetectionResult: The combined output handed to the reporting layer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
