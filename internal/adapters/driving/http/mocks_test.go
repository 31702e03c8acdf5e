package http

import (
	"context"
	"os"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
)

// mockIngestService records the document it receives.
type mockIngestService struct {
	result *domain.IngestResult
	err    error

	calls       int
	got         *domain.RawDocument
	stagedExist bool
}

func (m *mockIngestService) Ingest(_ context.Context, raw *domain.RawDocument) (*domain.IngestResult, error) {
	m.calls++
	m.got = raw
	_, statErr := os.Stat(raw.URI)
	m.stagedExist = statErr == nil
	return m.result, m.err
}

func (m *mockIngestService) IngestBatch(_ context.Context, _ []domain.RawDocument) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestService) Count(_ context.Context) (int, error) {
	return 0, nil
}

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
