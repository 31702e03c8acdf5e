// Package records holds checks and scoring shared by the vector store adapters.
package records

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

// Validate checks that an upsert batch is well formed: parallel slices of equal
// length, non-empty unique ids and vectors of exactly dims entries.
func Validate(ids []string, vectors [][]float32, texts []string, metadatas []domain.RecordMetadata, dims int) error {
	n := len(ids)
	if len(vectors) != n || len(texts) != n || len(metadatas) != n {
		return fmt.Errorf("%w: batch lengths differ (ids=%d vectors=%d texts=%d metadatas=%d)",
			domain.ErrInvalidArgument, n, len(vectors), len(texts), len(metadatas))
	}

	seen := make(map[string]struct{}, n)
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: record %d has an empty id", domain.ErrInvalidArgument, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %q in batch", domain.ErrInvalidArgument, id)
		}
		seen[id] = struct{}{}

		if len(vectors[i]) != dims {
			return fmt.Errorf("%w: record %q has %d dimensions, store expects %d",
				domain.ErrInvalidArgument, id, len(vectors[i]), dims)
		}
	}
	return nil
}

// CheckQuery validates a query vector and result count.
func CheckQuery(vector []float32, k, dims int) error {
	if k <= 0 {
		return fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidArgument, k)
	}
	if len(vector) != dims {
		return fmt.Errorf("%w: query has %d dimensions, store expects %d", domain.ErrInvalidArgument, len(vector), dims)
	}
	return nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either is zero.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK sorts hits by descending score, ties broken by id, and keeps the first k.
func TopK(hits []domain.QueryHit, k int) []domain.QueryHit {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
