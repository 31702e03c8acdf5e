package domain

import (
	"path/filepath"
	"time"
)

// Document is the extracted text of one source file.
// It is produced by a Normaliser and discarded after chunking.
type Document struct {
	// ID identifies the document within one ingestion call.
	ID string

	// URI is the original location (file path or upload name).
	URI string

	// Filename is the base name recorded in chunk metadata.
	Filename string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// Metadata contains parser-specific key-value pairs (mime_type, format, pages).
	Metadata map[string]any

	// CreatedAt is when the text was extracted.
	CreatedAt time.Time
}

// Chunk is a bounded substring of a Document's text.
// It is the unit of embedding and storage.
type Chunk struct {
	// ID is the collection-wide identifier, assigned by the identity policy.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text of this chunk. Never empty.
	Content string

	// Position is the zero-based index of the chunk within its document.
	Position int

	// Embedding is the vector representation of Content.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// FilenameOf returns the display filename for a document URI.
func FilenameOf(uri string) string {
	if uri == "" {
		return ""
	}
	return filepath.Base(uri)
}
