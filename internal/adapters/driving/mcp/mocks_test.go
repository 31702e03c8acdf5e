package mcp

import (
	"context"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error

	gotQuery string
	gotK     int
}

func (m *mockSearchService) Search(_ context.Context, query string, k int) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotK = k
	return m.results, m.err
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats *driving.CollectionStats
	err   error
}

func (m *mockStatsService) Stats(_ context.Context) (*driving.CollectionStats, error) {
	return m.stats, m.err
}
