package driving

import (
	"context"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

// IngestService runs the extract -> chunk -> embed -> upsert pipeline.
type IngestService interface {
	// Ingest processes a single document.
	// Returns domain.ErrUnsupportedFormat for formats other than pdf, docx and txt.
	// An empty document succeeds with zero chunks and leaves the store untouched.
	Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.IngestResult, error)

	// IngestBatch processes documents in order and returns the summed counts.
	// The first failure aborts the batch; documents before it stay stored.
	IngestBatch(ctx context.Context, docs []domain.RawDocument) (*domain.IngestResult, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)
}
