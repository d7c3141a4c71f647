// Package driving defines the interfaces through which external actors
// drive the core (primary ports in hexagonal architecture).
package driving

import (
	"context"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
)

// DetectionService provides duplicate and version detection over a
// materialized document collection.
type DetectionService interface {
	// DetectAll runs every enabled detection method, reconciles their
	// results, and produces tiered recommendations. An empty document
	// list yields an empty result, not an error.
	DetectAll(ctx context.Context, docs []domain.DocumentRecord, embeddings map[string][]float32) (*domain.DetectionResult, error)

	// DetectExactDuplicates runs only hash-based detection.
	DetectExactDuplicates(ctx context.Context, docs []domain.DocumentRecord) (*domain.HashDetectionResult, error)

	// DetectSimilarDocuments runs only semantic-similarity analysis.
	DetectSimilarDocuments(ctx context.Context, docs []domain.DocumentRecord, embeddings map[string][]float32) (*domain.SimilarityDetectionResult, error)

	// DetectDocumentVersions runs only filename-version detection.
	DetectDocumentVersions(ctx context.Context, docs []domain.DocumentRecord) (*domain.VersionDetectionResult, error)
}
