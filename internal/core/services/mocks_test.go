package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
	"github.com/custodia-labs/compass-embed/internal/normalisers"
	"github.com/custodia-labs/compass-embed/internal/postprocessors"
)

// spyStore wraps a memory store and counts Upsert calls.
type spyStore struct {
	*memory.VectorStore
	mu      sync.Mutex
	upserts int
	failOn  int
}

func (s *spyStore) Upsert(
	ctx context.Context,
	ids []string,
	vectors [][]float32,
	texts []string,
	metadatas []domain.RecordMetadata,
) error {
	s.mu.Lock()
	s.upserts++
	n := s.upserts
	s.mu.Unlock()
	if s.failOn > 0 && n == s.failOn {
		return fmt.Errorf("%w: disk full", domain.ErrStoreUnavailable)
	}
	return s.VectorStore.Upsert(ctx, ids, vectors, texts, metadatas)
}

func (s *spyStore) upsertCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

// failingEmbedder always reports the model as unavailable.
type failingEmbedder struct {
	driven.EmbeddingService
}

func (f *failingEmbedder) EmbedBatch(_ context.Context, _ []string) ([][]float32, error) {
	return nil, fmt.Errorf("%w: model not loaded", domain.ErrEmbeddingUnavailable)
}

// shortEmbedder drops the last embedding of every batch.
type shortEmbedder struct {
	driven.EmbeddingService
}

func (s *shortEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := s.EmbeddingService.EmbedBatch(ctx, texts)
	if err != nil || len(vectors) == 0 {
		return vectors, err
	}
	return vectors[:len(vectors)-1], nil
}

// recordingProgress records ProgressReporter calls.
type recordingProgress struct {
	total      int
	increments int
	finished   bool
}

func (p *recordingProgress) Start(total int) { p.total = total }
func (p *recordingProgress) Increment()      { p.increments++ }
func (p *recordingProgress) Finish()         { p.finished = true }

// failingStore fails every operation.
type failingStore struct {
	*memory.VectorStore
}

func (f *failingStore) Query(_ context.Context, _ []float32, _ int) ([]domain.QueryHit, error) {
	return nil, fmt.Errorf("%w: closed", domain.ErrStoreUnavailable)
}

func (f *failingStore) Count(_ context.Context) (int, error) {
	return 0, errors.New("closed")
}

type testEnv struct {
	embedder *hash.EmbeddingService
	store    *spyStore
	ingest   *IngestService
	search   *SearchService
}

// setupTestServices wires the services to the hash embedder and a memory store
// with 500/50 chunking.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	embedder := hash.NewEmbeddingService(hash.Config{})
	mem, err := memory.NewVectorStore("test_docs", embedder.Dimensions())
	require.NoError(t, err)
	store := &spyStore{VectorStore: mem}

	pipeline, err := postprocessors.NewChunkingPipeline(domain.ChunkingSettings{Size: 500, Overlap: 50})
	require.NoError(t, err)

	return &testEnv{
		embedder: embedder,
		store:    store,
		ingest:   NewIngestService(normalisers.NewDefaultRegistry(), pipeline, embedder, store, nil),
		search:   NewSearchService(embedder, store),
	}
}

func textDocument(uri, content string) domain.RawDocument {
	return domain.RawDocument{
		URI:      uri,
		MIMEType: domain.MIMETypeText,
		Content:  []byte(content),
	}
}

func count(t *testing.T, store driven.VectorStore) int {
	t.Helper()
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	return n
}

func repeatText(word string, length int) string {
	return strings.Repeat(word, length/len(word)+1)[:length]
}
