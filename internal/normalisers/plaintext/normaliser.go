// Package plaintext normalises UTF-8 text files.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const byteOrderMark = "\uFEFF"

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeText}
}

// SupportedFormats returns the file formats this normaliser handles.
func (n *Normaliser) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatText}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise decodes the bytes as UTF-8. A leading byte order mark is dropped
// and invalid sequences become U+FFFD.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.TrimPrefix(string(raw.Content), byteOrderMark)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "�")
	}

	filename := raw.DisplayFilename()
	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Filename:  filename,
		Title:     titleFor(raw, filename),
		Content:   content,
		Metadata:  make(map[string]any, len(raw.Metadata)+2),
		CreatedAt: time.Now(),
	}
	for k, v := range raw.Metadata {
		doc.Metadata[k] = v
	}
	doc.Metadata["mime_type"] = domain.MIMETypeText
	doc.Metadata["format"] = domain.FormatText.String()

	return &driven.NormaliseResult{Document: doc}, nil
}

// titleFor prefers a caller-supplied title over one derived from the filename.
func titleFor(raw *domain.RawDocument, filename string) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}
