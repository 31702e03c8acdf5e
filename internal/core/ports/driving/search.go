package driving

import (
	"context"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

// SearchService provides similarity search to external actors.
type SearchService interface {
	// Search embeds query and returns at most k nearest chunks, best first.
	// k must be positive; callers apply domain.DefaultSearchLimit when unspecified.
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}

// CollectionStats describes the collection behind a SearchService.
type CollectionStats struct {
	// Collection is the collection name.
	Collection string `json:"collection"`

	// Count is the number of stored records.
	Count int `json:"count"`

	// Dimensions is the vector size.
	Dimensions int `json:"dimensions"`

	// Model is the embedding model name.
	Model string `json:"model"`
}

// StatsService reports collection statistics.
type StatsService interface {
	// Stats returns the current collection statistics.
	Stats(ctx context.Context) (*CollectionStats, error)
}
