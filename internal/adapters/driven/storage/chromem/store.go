// Package chromem provides a persistent VectorStore backed by chromem-go.
//
// Records are stored in one collection of a chromem persistent database.
// The database directory is the store path; chromem writes one gob file per
// record, so an upsert is durable once Add returns.
package chromem

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/records"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Metadata keys written with every record.
const (
	metaFilename = "filename"
	metaChunkID  = "chunk_id"
)

// Store is a chromem-backed vector store holding a single collection.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	dimensions int
}

// NewStore opens or creates the collection name under path.
func NewStore(path, name string, dimensions int) (*Store, error) {
	if path == "" || name == "" {
		return nil, fmt.Errorf("%w: chromem store needs a path and a collection name", domain.ErrInvalidArgument)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidArgument, dimensions)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", domain.ErrStoreUnavailable, path, err)
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: open chromem db: %v", domain.ErrStoreUnavailable, err)
	}

	metadata := map[string]string{
		"hnsw:space": "cosine",
		"dimensions": strconv.Itoa(dimensions),
	}
	collection, err := db.GetOrCreateCollection(name, metadata, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open collection %s: %v", domain.ErrStoreUnavailable, name, err)
	}

	s := &Store{
		db:         db,
		collection: collection,
		name:       name,
		dimensions: dimensions,
	}
	if err := s.checkWidth(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// checkWidth rejects a non-empty collection whose vectors are not
// s.dimensions wide. GetOrCreateCollection keeps the metadata of an
// existing collection, so the width is checked against a stored vector:
// chromem fails a query whose length differs from the records'.
func (s *Store) checkWidth(ctx context.Context) error {
	if s.collection.Count() == 0 {
		return nil
	}
	axis := make([]float32, s.dimensions)
	axis[0] = 1
	if _, err := s.collection.QueryEmbedding(ctx, axis, 1, nil, nil); err != nil {
		return fmt.Errorf("%w: collection %s holds vectors that are not %d-dimensional: %v",
			domain.ErrInvalidArgument, s.name, s.dimensions, err)
	}
	return nil
}

// Upsert adds the batch. chromem replaces documents whose id already exists.
func (s *Store) Upsert(
	ctx context.Context,
	ids []string,
	vectors [][]float32,
	texts []string,
	metadatas []domain.RecordMetadata,
) error {
	if err := records.Validate(ids, vectors, texts, metadatas, s.dimensions); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	metas := make([]map[string]string, len(metadatas))
	for i, m := range metadatas {
		metas[i] = map[string]string{
			metaFilename: m.Filename,
			metaChunkID:  strconv.Itoa(m.ChunkID),
		}
	}

	// chromem keeps the slices it is given.
	embeddings := make([][]float32, len(vectors))
	for i, v := range vectors {
		embeddings[i] = append([]float32(nil), v...)
	}

	if err := s.collection.Add(ctx, ids, embeddings, metas, texts); err != nil {
		return fmt.Errorf("%w: chromem add: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Query returns up to k nearest records by cosine similarity.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]domain.QueryHit, error) {
	if err := records.CheckQuery(vector, k, s.dimensions); err != nil {
		return nil, err
	}

	// chromem rejects nResults larger than the collection.
	n := min(k, s.collection.Count())
	if n == 0 {
		return []domain.QueryHit{}, nil
	}

	query := append([]float32(nil), vector...)
	results, err := s.collection.QueryEmbedding(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: chromem query: %v", domain.ErrStoreUnavailable, err)
	}

	hits := make([]domain.QueryHit, 0, len(results))
	for _, r := range results {
		chunkID, err := strconv.Atoi(r.Metadata[metaChunkID])
		if err != nil {
			return nil, fmt.Errorf("%w: record %s has malformed %s %q",
				domain.ErrStoreUnavailable, r.ID, metaChunkID, r.Metadata[metaChunkID])
		}
		hits = append(hits, domain.QueryHit{
			ID:   r.ID,
			Text: r.Content,
			Metadata: domain.RecordMetadata{
				Filename: r.Metadata[metaFilename],
				ChunkID:  chunkID,
			},
			Score: float64(r.Similarity),
		})
	}
	return records.TopK(hits, k), nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Dimensions returns the vector size the store accepts.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// Name returns the collection name.
func (s *Store) Name() string {
	return s.name
}

// Close releases resources. chromem persists on every write.
func (s *Store) Close() error {
	return nil
}
