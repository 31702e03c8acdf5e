// Package pdf extracts page text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxTitleLength bounds a first-line title candidate.
const maxTitleLength = 200

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypePDF}
}

// SupportedFormats returns the file formats this normaliser handles.
func (n *Normaliser) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatPDF}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise concatenates the plain text of every page, separated by newlines.
// Pages without content are skipped.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, pages, info, err := extractText(ctx, raw.Content)
	if err != nil {
		return nil, err
	}

	filename := raw.DisplayFilename()
	title := info
	if title == "" {
		title = extractTitle(content, filename)
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Filename:  filename,
		Title:     title,
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}
	doc.Metadata["mime_type"] = domain.MIMETypePDF
	doc.Metadata["format"] = domain.FormatPDF.String()
	doc.Metadata["pages"] = pages

	return &driven.NormaliseResult{Document: doc}, nil
}

// extractText returns the page text, the page count and the Info title.
// The parser panics on some malformed files, so panics become errors.
func extractText(ctx context.Context, data []byte) (text string, pages int, title string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrInvalidInput, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, "", fmt.Errorf("%w: open pdf: %v", domain.ErrInvalidInput, err)
	}

	pages = reader.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, "", fmt.Errorf("%w: page %d: %v", domain.ErrInvalidInput, i, err)
		}
		parts = append(parts, pageText)
	}

	title = strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text())
	return strings.Join(parts, "\n"), pages, title, nil
}

// extractTitle uses the first short non-empty line, falling back to the filename.
func extractTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLength {
			return line
		}
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// copyMetadata creates a shallow copy of metadata. The result is never nil.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+3)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
