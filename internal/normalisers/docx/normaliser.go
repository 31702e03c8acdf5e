// Package docx extracts paragraph text from Office Open XML documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeDOCX}
}

// SupportedFormats returns the file formats this normaliser handles.
func (n *Normaliser) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatDOCX}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise joins the text of every body paragraph with newlines.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	body, ok, err := readPart(reader, documentPart)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s missing", domain.ErrInvalidInput, documentPart)
	}

	content, paragraphs, err := parseDocumentXML(body)
	if err != nil {
		return nil, err
	}

	filename := raw.DisplayFilename()
	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Filename:  filename,
		Title:     extractTitle(reader, filename),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}
	doc.Metadata["mime_type"] = domain.MIMETypeDOCX
	doc.Metadata["format"] = domain.FormatDOCX.String()
	doc.Metadata["paragraphs"] = paragraphs

	return &driven.NormaliseResult{Document: doc}, nil
}

// readPart returns the bytes of a named archive member.
func readPart(reader *zip.Reader, name string) ([]byte, bool, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, true, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, true, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, name, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML returns the paragraph text joined by newlines and the paragraph count.
func parseDocumentXML(content []byte) (string, int, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", 0, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidInput, documentPart, err)
	}

	lines := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var line strings.Builder
		for _, r := range para.Runs {
			for _, text := range r.Text {
				line.WriteString(text.Content)
			}
		}
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n"), len(lines), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle reads the title from docProps/core.xml or falls back to the filename.
func extractTitle(reader *zip.Reader, filename string) string {
	if data, ok, err := readPart(reader, corePart); ok && err == nil {
		var core coreXML
		if xml.Unmarshal(data, &core) == nil && strings.TrimSpace(core.Title) != "" {
			return strings.TrimSpace(core.Title)
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
