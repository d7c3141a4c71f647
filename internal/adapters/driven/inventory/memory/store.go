// Package memory provides an in-memory driven.InventoryStore. It backs
// JSON-file inventories and test fixtures.
package memory

import (
	"context"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.InventoryStore = (*Store)(nil)

// Store holds a fixed document collection in memory.
type Store struct {
	docs       []domain.DocumentRecord
	embeddings map[string][]float32
}

// NewStore creates an inventory over the given records. The embeddings
// map may be nil for inventories without semantic vectors.
func NewStore(docs []domain.DocumentRecord, embeddings map[string][]float32) *Store {
	if embeddings == nil {
		embeddings = make(map[string][]float32)
	}
	return &Store{docs: docs, embeddings: embeddings}
}

// Documents returns the document records in insertion order.
func (s *Store) Documents(_ context.Context) ([]domain.DocumentRecord, error) {
	out := make([]domain.DocumentRecord, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

// Embeddings returns the document-ID to embedding-vector map.
func (s *Store) Embeddings(_ context.Context) (map[string][]float32, error) {
	out := make(map[string][]float32, len(s.embeddings))
	for k, v := range s.embeddings {
		out[k] = v
	}
	return out, nil
}

// Close is a no-op for in-memory inventories.
func (s *Store) Close() error {
	return nil
}
