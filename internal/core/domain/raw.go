package domain

// RawDocument represents the bytes of an uploaded or on-disk file
// before text extraction.
type RawDocument struct {
	// URI is the original location. Its extension selects the parser.
	URI string

	// Filename overrides the filename recorded in chunk metadata.
	// Uploads set it to the client-supplied name while URI points at the staged temp file.
	Filename string

	// MIMEType is the content type (e.g., "application/pdf").
	// Empty means it is derived from the URI extension.
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-supplied key-value pairs.
	Metadata map[string]any
}

// DisplayFilename returns Filename when set, otherwise the base name of URI.
func (r *RawDocument) DisplayFilename() string {
	if r.Filename != "" {
		return r.Filename
	}
	return FilenameOf(r.URI)
}
