package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DocumentRecord is an immutable snapshot of one discovered file.
// It is produced by the upstream crawler/extraction layer and treated
// as read-only input by the detection core.
type DocumentRecord struct {
	// Filename is the base name including extension.
	Filename string `json:"filename"`

	// Path is the full location of the file within its source.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// FileExtension is the lowercase extension including the dot (".pdf").
	FileExtension string `json:"file_extension"`

	// MimeType is the detected MIME type, if known.
	MimeType string `json:"mime_type,omitempty"`

	// ModifiedDate is the last-modified timestamp. Optional, but
	// required for version ordering and recency scoring.
	ModifiedDate *time.Time `json:"modified_date,omitempty"`

	// CreatedDate is the creation timestamp, if the source exposes one.
	CreatedDate *time.Time `json:"created_date,omitempty"`

	// SHA256Hash is the hex-encoded content digest. Optional; documents
	// without a hash are skipped by hash-based grouping.
	SHA256Hash string `json:"sha256_hash,omitempty"`

	// MD5Hash is the hex-encoded MD5 digest, used as a fallback.
	MD5Hash string `json:"md5_hash,omitempty"`

	// TextLength is the extracted text length in characters, when
	// text extraction ran upstream. Zero means no text available.
	TextLength int `json:"text_length,omitempty"`

	// SourceType identifies the crawler that produced this record
	// (e.g. "local", "smb", "sharepoint").
	SourceType string `json:"source_type,omitempty"`
}

// ID returns the stable identifier for this document: the first 16 hex
// characters of its content hash, or a stem+size fallback when no hash
// was computed upstream.
func (d *DocumentRecord) ID() string {
	if len(d.SHA256Hash) >= 16 {
		return d.SHA256Hash[:16]
	}
	if len(d.MD5Hash) >= 16 {
		return d.MD5Hash[:16]
	}
	return fmt.Sprintf("%s_%d", d.Stem(), d.Size)
}

// Stem returns the filename without its extension.
func (d *DocumentRecord) Stem() string {
	base := filepath.Base(d.Path)
	if base == "." || base == string(filepath.Separator) {
		base = d.Filename
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Hash returns the content digest for the given algorithm. An empty
// string means the document cannot participate in hash grouping.
func (d *DocumentRecord) Hash(algorithm HashAlgorithm) string {
	switch algorithm {
	case HashAlgorithmSHA256:
		return d.SHA256Hash
	case HashAlgorithmMD5:
		return d.MD5Hash
	default:
		if d.SHA256Hash != "" {
			return d.SHA256Hash
		}
		return d.MD5Hash
	}
}

// Summary converts the record to its JSON-serializable result form.
func (d *DocumentRecord) Summary() DocumentSummary {
	s := DocumentSummary{
		ID:            d.ID(),
		Filename:      d.Filename,
		Path:          d.Path,
		Size:          d.Size,
		SizeMB:        roundMB(d.Size),
		FileExtension: d.FileExtension,
		MimeType:      d.MimeType,
		SHA256Hash:    d.SHA256Hash,
		MD5Hash:       d.MD5Hash,
		TextLength:    d.TextLength,
		SourceType:    d.SourceType,
	}
	if d.ModifiedDate != nil {
		s.ModifiedDate = d.ModifiedDate.Format(time.RFC3339)
	}
	if d.CreatedDate != nil {
		s.CreatedDate = d.CreatedDate.Format(time.RFC3339)
	}
	return s
}

// DocumentSummary is the flattened, JSON-serializable projection of a
// DocumentRecord used inside detection results. The reporting layer only
// ever sees summaries, never the live records.
type DocumentSummary struct {
	ID            string  `json:"id"`
	Filename      string  `json:"filename"`
	Path          string  `json:"path"`
	Size          int64   `json:"size"`
	SizeMB        float64 `json:"size_mb"`
	ModifiedDate  string  `json:"modified_date,omitempty"`
	CreatedDate   string  `json:"created_date,omitempty"`
	FileExtension string  `json:"file_extension"`
	MimeType      string  `json:"mime_type,omitempty"`
	SHA256Hash    string  `json:"sha256_hash,omitempty"`
	MD5Hash       string  `json:"md5_hash,omitempty"`
	TextLength    int     `json:"text_length,omitempty"`
	SourceType    string  `json:"source_type,omitempty"`
}

// roundMB converts bytes to megabytes rounded to two decimals.
func roundMB(size int64) float64 {
	mb := float64(size) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}
