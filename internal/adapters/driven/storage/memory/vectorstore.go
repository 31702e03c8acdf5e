package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/records"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Queries are an exact cosine scan. Contents are lost on exit.
type VectorStore struct {
	mu         sync.RWMutex
	name       string
	dimensions int
	records    map[string]domain.Record
}

// NewVectorStore creates an empty in-memory collection.
func NewVectorStore(name string, dimensions int) (*VectorStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidArgument, dimensions)
	}
	return &VectorStore{
		name:       name,
		dimensions: dimensions,
		records:    make(map[string]domain.Record),
	}, nil
}

// Upsert inserts or replaces records keyed by id.
func (s *VectorStore) Upsert(
	_ context.Context,
	ids []string,
	vectors [][]float32,
	texts []string,
	metadatas []domain.RecordMetadata,
) error {
	if err := records.Validate(ids, vectors, texts, metadatas, s.dimensions); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range ids {
		s.records[id] = domain.Record{
			ID:       id,
			Vector:   append([]float32(nil), vectors[i]...),
			Text:     texts[i],
			Metadata: metadatas[i],
		}
	}
	return nil
}

// Query returns up to k records nearest to vector.
func (s *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]domain.QueryHit, error) {
	if err := records.CheckQuery(vector, k, s.dimensions); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]domain.QueryHit, 0, len(s.records))
	for _, r := range s.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hits = append(hits, domain.QueryHit{
			ID:       r.ID,
			Text:     r.Text,
			Metadata: r.Metadata,
			Score:    records.Cosine(vector, r.Vector),
		})
	}
	return records.TopK(hits, k), nil
}

// Count returns the number of records.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Get returns a stored record by id.
func (s *VectorStore) Get(id string) (domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	return r, ok
}

// Dimensions returns the vector size the store accepts.
func (s *VectorStore) Dimensions() int {
	return s.dimensions
}

// Name returns the collection name.
func (s *VectorStore) Name() string {
	return s.name
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}
