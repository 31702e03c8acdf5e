package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
	"github.com/custodia-labs/compass-embed/internal/logger"
)

// Ensure SearchService implements the interfaces.
var (
	_ driving.SearchService = (*SearchService)(nil)
	_ driving.StatsService  = (*SearchService)(nil)
)

// SearchService answers similarity queries against the collection.
type SearchService struct {
	embeddingService driven.EmbeddingService
	store            driven.VectorStore
}

// NewSearchService creates a new search service.
func NewSearchService(embeddingService driven.EmbeddingService, store driven.VectorStore) *SearchService {
	return &SearchService{
		embeddingService: embeddingService,
		store:            store,
	}
}

// Search embeds query and returns at most k nearest chunks, best first.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, k=%d", query, k)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidArgument)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidArgument, k)
	}

	vectors, err := s.embeddingService.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d embeddings for 1 query", domain.ErrEmbeddingUnavailable, len(vectors))
	}

	hits, err := s.store.Query(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	logger.Debug("Vector store returned %d hits", len(hits))

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.SearchResult{
			ID:       hit.ID,
			Text:     hit.Text,
			Metadata: hit.Metadata,
			Score:    hit.Score,
		})
	}
	return results, nil
}

// Stats returns the collection name, record count, vector size and model.
func (s *SearchService) Stats(ctx context.Context) (*driving.CollectionStats, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	return &driving.CollectionStats{
		Collection: s.store.Name(),
		Count:      count,
		Dimensions: s.store.Dimensions(),
		Model:      s.embeddingService.ModelName(),
	}, nil
}
