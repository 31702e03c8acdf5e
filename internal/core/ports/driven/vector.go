package driven

import (
	"context"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

// VectorStore is the durable collection of embedded chunks.
// Implementations must be safe for concurrent callers.
type VectorStore interface {
	// Upsert inserts or replaces records keyed by id.
	// ids, vectors, texts and metadatas are parallel slices of equal length and
	// every vector has Dimensions() entries; otherwise domain.ErrInvalidArgument.
	Upsert(
		ctx context.Context,
		ids []string,
		vectors [][]float32,
		texts []string,
		metadatas []domain.RecordMetadata,
	) error

	// Query returns up to k records nearest to vector, best first.
	// Returns every record when the collection holds fewer than k.
	Query(ctx context.Context, vector []float32, k int) ([]domain.QueryHit, error)

	// Count returns the number of records currently stored.
	Count(ctx context.Context) (int, error)

	// Dimensions returns the vector size the store accepts.
	Dimensions() int

	// Name returns the collection name.
	Name() string

	// Close releases resources.
	Close() error
}
