// Package sqlite reads a document inventory from the SQLite database
// the upstream crawler writes. The store is strictly read-only: it
// opens the database in query-only mode and never creates or migrates
// anything.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.InventoryStore = (*Store)(nil)

// Store reads document records and embeddings from a crawler database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the inventory database at dbPath in read-only mode.
// The file must already exist; detection never creates inventories.
func NewStore(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("inventory database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=query_only(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening inventory database: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Documents returns every document record in the inventory, in rowid
// order so repeated loads see the same ordering.
func (s *Store) Documents(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, path, size, file_extension, mime_type,
		       modified_date, created_date, sha256_hash, md5_hash,
		       text_length, source_type
		FROM documents
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentRecord
	for rows.Next() {
		var (
			doc      domain.DocumentRecord
			modified sql.NullString
			created  sql.NullString
			sha256   sql.NullString
			md5      sql.NullString
			mime     sql.NullString
			source   sql.NullString
		)
		if err := rows.Scan(
			&doc.Filename, &doc.Path, &doc.Size, &doc.FileExtension, &mime,
			&modified, &created, &sha256, &md5,
			&doc.TextLength, &source,
		); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}

		doc.MimeType = mime.String
		doc.SHA256Hash = sha256.String
		doc.MD5Hash = md5.String
		doc.SourceType = source.String
		doc.ModifiedDate = parseTime(modified)
		doc.CreatedDate = parseTime(created)

		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading document rows: %w", err)
	}

	return docs, nil
}

// Embeddings returns the document-ID to embedding-vector map. Vectors
// are stored as JSON arrays of floats. An inventory without an
// embeddings table yields an empty map.
func (s *Store) Embeddings(ctx context.Context) (map[string][]float32, error) {
	embeddings := make(map[string][]float32)

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'embeddings'`,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking embeddings table: %w", err)
	}
	if count == 0 {
		return embeddings, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, vector FROM embeddings`)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			docID string
			raw   []byte
		)
		if err := rows.Scan(&docID, &raw); err != nil {
			return nil, fmt.Errorf("scanning embedding row: %w", err)
		}

		var vector []float32
		if err := json.Unmarshal(raw, &vector); err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", docID, err)
		}
		embeddings[docID] = vector
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading embedding rows: %w", err)
	}

	return embeddings, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func parseTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil
	}
	return &t
}
