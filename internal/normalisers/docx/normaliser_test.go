package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// buildDOCX writes a minimal archive with the given parts.
func buildDOCX(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, body := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func buildDocumentXML(paragraphs ...string) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>`)
	for _, p := range paragraphs {
		b.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func TestNormaliser_Descriptors(t *testing.T) {
	n := New()
	assert.Equal(t, []string{domain.MIMETypeDOCX}, n.SupportedMIMETypes())
	assert.Equal(t, []domain.Format{domain.FormatDOCX}, n.SupportedFormats())
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_JoinsParagraphs(t *testing.T) {
	content := buildDOCX(t, map[string]string{
		documentPart: buildDocumentXML("Course overview", "Week one covers sets.", "Week two covers graphs."),
	})

	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "/data/syllabus.docx",
		Content: content,
	})
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "Course overview\nWeek one covers sets.\nWeek two covers graphs.", doc.Content)
	assert.Equal(t, "syllabus.docx", doc.Filename)
	assert.Equal(t, "syllabus", doc.Title)
	assert.Equal(t, 3, doc.Metadata["paragraphs"])
	assert.Equal(t, "docx", doc.Metadata["format"])
	assert.NotEmpty(t, doc.ID)
}

func TestNormalise_RunsWithinParagraph(t *testing.T) {
	body := `<w:document ` + wordNS + `><w:body><w:p>` +
		`<w:r><w:t>Hello </w:t></w:r><w:r><w:t>world</w:t></w:r>` +
		`</w:p></w:body></w:document>`

	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "a.docx",
		Content: buildDOCX(t, map[string]string{documentPart: body}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", result.Document.Content)
}

func TestNormalise_TitleFromCoreProperties(t *testing.T) {
	core := `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Student Handbook</dc:title></cp:coreProperties>`

	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI: "handbook_2024.docx",
		Content: buildDOCX(t, map[string]string{
			documentPart: buildDocumentXML("text"),
			corePart:     core,
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Student Handbook", result.Document.Title)
}

func TestNormalise_UploadFilename(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:      "/tmp/upload-1234.docx",
		Filename: "my-notes.docx",
		Content:  buildDOCX(t, map[string]string{documentPart: buildDocumentXML("x")}),
	})
	require.NoError(t, err)
	assert.Equal(t, "my-notes.docx", result.Document.Filename)
	assert.Equal(t, "my notes", result.Document.Title)
}

func TestNormalise_EmptyBody(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "empty.docx",
		Content: buildDOCX(t, map[string]string{documentPart: buildDocumentXML()}),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Document.Content)
}

func TestNormalise_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  *domain.RawDocument
	}{
		{"nil document", nil},
		{"not a zip", &domain.RawDocument{URI: "a.docx", Content: []byte("plain bytes")}},
		{"missing document part", &domain.RawDocument{
			URI:     "a.docx",
			Content: buildDOCX(t, map[string]string{"[Content_Types].xml": "<Types/>"}),
		}},
		{"malformed xml", &domain.RawDocument{
			URI:     "a.docx",
			Content: buildDOCX(t, map[string]string{documentPart: "<w:document"}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Normalise(context.Background(), tt.raw)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, result)
		})
	}
}

func TestNormalise_MetadataCopied(t *testing.T) {
	src := map[string]any{"origin": "upload"}
	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:      "a.docx",
		Content:  buildDOCX(t, map[string]string{documentPart: buildDocumentXML("x")}),
		Metadata: src,
	})
	require.NoError(t, err)
	assert.Equal(t, "upload", result.Document.Metadata["origin"])
	_, leaked := src["format"]
	assert.False(t, leaked)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
