package driven

import (
	"context"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers and dispatches
// on the document's format, falling back to its MIME type.
type NormaliserRegistry interface {
	// Normalise extracts text using the best matching normaliser.
	// Returns domain.ErrUnsupportedFormat when no normaliser matches.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// Supports reports whether a document at path can be normalised.
	Supports(path string) bool

	// SupportedFormats returns all formats that can be normalised.
	SupportedFormats() []domain.Format
}
