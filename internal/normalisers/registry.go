package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
	"github.com/custodia-labs/compass-embed/internal/normalisers/docx"
	"github.com/custodia-labs/compass-embed/internal/normalisers/pdf"
	"github.com/custodia-labs/compass-embed/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry holds normalisers ordered by descending priority.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with the pdf, docx and plaintext normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a normaliser. Equal priorities keep registration order.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, normaliser)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise extracts text with the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.find(raw)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, domain.ExtensionOf(raw.DisplayFilename()))
	}
	return n.Normalise(ctx, raw)
}

// Supports reports whether a file at path has a registered format.
func (r *Registry) Supports(path string) bool {
	format, ok := domain.FormatFromPath(path)
	if !ok {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byFormat(format) != nil
}

// SupportedFormats returns every format at least one normaliser handles.
func (r *Registry) SupportedFormats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var formats []domain.Format
	for _, f := range domain.AllFormats() {
		if r.byFormat(f) != nil {
			formats = append(formats, f)
		}
	}
	return formats
}

// find picks the normaliser by extension. The MIME type is consulted only
// when the name has no extension at all.
func (r *Registry) find(raw *domain.RawDocument) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Uploads are staged under a temp name, so the display filename decides the format.
	name := raw.DisplayFilename()
	if format, ok := domain.FormatFromPath(name); ok {
		return r.byFormat(format)
	}
	if domain.ExtensionOf(name) != "unknown" || raw.MIMEType == "" {
		return nil
	}
	for _, n := range r.normalisers {
		for _, mime := range n.SupportedMIMETypes() {
			if mime == raw.MIMEType {
				return n
			}
		}
	}
	return nil
}

func (r *Registry) byFormat(format domain.Format) driven.Normaliser {
	for _, n := range r.normalisers {
		for _, f := range n.SupportedFormats() {
			if f == format {
				return n
			}
		}
	}
	return nil
}
