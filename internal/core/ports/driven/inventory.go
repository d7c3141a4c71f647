package driven

import (
	"context"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
)

// InventoryStore loads the fully-materialized document collection the
// upstream crawler produced. Detection works on the returned snapshot;
// the store is never written to by this module.
type InventoryStore interface {
	// Documents returns every document record in the inventory.
	Documents(ctx context.Context) ([]domain.DocumentRecord, error)

	// Embeddings returns the document-ID to embedding-vector map.
	// An empty map is a valid result: similarity analysis is simply
	// skipped for inventories without embeddings.
	Embeddings(ctx context.Context) (map[string][]float32, error)

	// Close releases resources.
	Close() error
}
