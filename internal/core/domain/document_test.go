package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDocument_Fields tests Document structure fields
func TestDocument_Fields(t *testing.T) {
	now := time.Now()

	doc := Document{
		ID:        "doc-123",
		URI:       "data/guide.pdf",
		Filename:  "guide.pdf",
		Title:     "Student Guide",
		Content:   "Welcome to campus.",
		Metadata:  map[string]any{"pages": 42},
		CreatedAt: now,
	}

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, "data/guide.pdf", doc.URI)
	assert.Equal(t, "guide.pdf", doc.Filename)
	assert.Equal(t, "Student Guide", doc.Title)
	assert.Equal(t, "Welcome to campus.", doc.Content)
	assert.Equal(t, 42, doc.Metadata["pages"])
	assert.Equal(t, now, doc.CreatedAt)
}

// TestChunk_Fields tests Chunk structure fields
func TestChunk_Fields(t *testing.T) {
	chunk := Chunk{
		ID:         "chunk-1",
		DocumentID: "doc-123",
		Content:    "Welcome",
		Position:   2,
		Embedding:  []float32{0.1, 0.2},
	}

	assert.Equal(t, "chunk-1", chunk.ID)
	assert.Equal(t, "doc-123", chunk.DocumentID)
	assert.Equal(t, 2, chunk.Position)
	assert.Len(t, chunk.Embedding, 2)
	assert.Nil(t, chunk.Metadata)
}

func TestFilenameOf(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"", ""},
		{"guide.pdf", "guide.pdf"},
		{"data/course/guide.pdf", "guide.pdf"},
		{"/tmp/upload-123.docx", "upload-123.docx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FilenameOf(tt.uri), tt.uri)
	}
}
