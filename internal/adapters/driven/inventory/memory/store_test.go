package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
)

func TestStore_Documents(t *testing.T) {
	docs := []domain.DocumentRecord{
		{Filename: "a.txt", Path: "/a.txt", Size: 100, SHA256Hash: strings.Repeat("a", 64)},
		{Filename: "b.txt", Path: "/b.txt", Size: 200},
	}
	store := NewStore(docs, nil)

	loaded, err := store.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a.txt", loaded[0].Filename)
	assert.Equal(t, "b.txt", loaded[1].Filename)

	// The returned slice is a copy; mutating it leaves the store intact.
	loaded[0].Filename = "mutated"
	again, err := store.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a.txt", again[0].Filename)
}

func TestStore_Embeddings(t *testing.T) {
	embeddings := map[string][]float32{
		"doc-1": {0.1, 0.2, 0.3},
	}
	store := NewStore(nil, embeddings)

	loaded, err := store.Embeddings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, loaded["doc-1"])
}

func TestStore_Embeddings_NilMap(t *testing.T) {
	store := NewStore(nil, nil)

	loaded, err := store.Embeddings(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestStore_Close(t *testing.T) {
	store := NewStore(nil, nil)
	assert.NoError(t, store.Close())
}
