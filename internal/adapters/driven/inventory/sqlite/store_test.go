package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture creates a minimal crawler database for the store to read.
func writeFixture(t *testing.T, withEmbeddings bool) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inventory.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE documents (
			filename       TEXT NOT NULL,
			path           TEXT NOT NULL,
			size           INTEGER NOT NULL,
			file_extension TEXT NOT NULL,
			mime_type      TEXT,
			modified_date  TEXT,
			created_date   TEXT,
			sha256_hash    TEXT,
			md5_hash       TEXT,
			text_length    INTEGER NOT NULL DEFAULT 0,
			source_type    TEXT
		)`)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO documents
			(filename, path, size, file_extension, mime_type, modified_date,
			 created_date, sha256_hash, md5_hash, text_length, source_type)
		VALUES
			('report.pdf', '/docs/report.pdf', 1000, '.pdf', 'application/pdf',
			 '2025-01-15T10:00:00Z', NULL, ?, NULL, 2400, 'local'),
			('notes.txt', '/docs/notes.txt', 200, '.txt', NULL,
			 NULL, NULL, NULL, NULL, 0, 'local')`,
		strings.Repeat("a", 64))
	require.NoError(t, err)

	if withEmbeddings {
		_, err = db.Exec(`
			CREATE TABLE embeddings (
				document_id TEXT PRIMARY KEY,
				vector      TEXT NOT NULL
			)`)
		require.NoError(t, err)

		_, err = db.Exec(`INSERT INTO embeddings (document_id, vector) VALUES (?, ?)`,
			strings.Repeat("a", 16), "[0.1, 0.2, 0.3]")
		require.NoError(t, err)
	}

	return path
}

func TestNewStore_MissingFile(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestStore_Documents(t *testing.T) {
	store, err := NewStore(writeFixture(t, false))
	require.NoError(t, err)
	defer store.Close()

	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	report := docs[0]
	assert.Equal(t, "report.pdf", report.Filename)
	assert.Equal(t, "/docs/report.pdf", report.Path)
	assert.Equal(t, int64(1000), report.Size)
	assert.Equal(t, "application/pdf", report.MimeType)
	assert.Equal(t, strings.Repeat("a", 64), report.SHA256Hash)
	assert.Equal(t, 2400, report.TextLength)
	require.NotNil(t, report.ModifiedDate)
	assert.Equal(t, 2025, report.ModifiedDate.Year())

	// NULL columns come through as zero values.
	notes := docs[1]
	assert.Empty(t, notes.MimeType)
	assert.Empty(t, notes.SHA256Hash)
	assert.Nil(t, notes.ModifiedDate)
}

func TestStore_Embeddings(t *testing.T) {
	store, err := NewStore(writeFixture(t, true))
	require.NoError(t, err)
	defer store.Close()

	embeddings, err := store.Embeddings(context.Background())
	require.NoError(t, err)
	require.Len(t, embeddings, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embeddings[strings.Repeat("a", 16)])
}

func TestStore_Embeddings_NoTable(t *testing.T) {
	store, err := NewStore(writeFixture(t, false))
	require.NoError(t, err)
	defer store.Close()

	embeddings, err := store.Embeddings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}
