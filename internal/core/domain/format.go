package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported document format.
type Format string

// Supported document formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

// MIME types of the supported formats.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypeText = "text/plain"
)

// AllFormats returns every supported format.
func AllFormats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatText}
}

// FormatFromPath returns the format for a path's extension (case-insensitive).
// The boolean is false for unsupported extensions.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatPDF, FormatDOCX, FormatText:
		return Format(ext), true
	default:
		return "", false
	}
}

// ExtensionOf returns the lower-cased extension of path without the dot,
// or "unknown" when there is none.
func ExtensionOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "unknown"
	}
	return ext
}

// MIMEType returns the MIME type of the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return MIMETypePDF
	case FormatDOCX:
		return MIMETypeDOCX
	case FormatText:
		return MIMETypeText
	default:
		return ""
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}
