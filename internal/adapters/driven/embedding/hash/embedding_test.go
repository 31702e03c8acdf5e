package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultDimensions, s.Dimensions())
	assert.Equal(t, "hashing-v1", s.ModelName())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestEmbed_DeterministicUnitLength(t *testing.T) {
	s := NewEmbeddingService(Config{Dimensions: 64})
	ctx := context.Background()

	a, err := s.Embed(ctx, "Linear algebra covers vectors and matrices.")
	require.NoError(t, err)
	b, err := s.Embed(ctx, "Linear algebra covers vectors and matrices.")
	require.NoError(t, err)

	require.Len(t, a, 64)
	assert.Equal(t, a, b)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestEmbed_SimilarTextsScoreHigher(t *testing.T) {
	s := NewEmbeddingService(Config{})
	ctx := context.Background()

	query, _ := s.Embed(ctx, "photosynthesis in plant cells")
	near, _ := s.Embed(ctx, "Plant cells perform photosynthesis using chlorophyll.")
	far, _ := s.Embed(ctx, "The treaty ended the war in 1648.")

	assert.Greater(t, cosine(query, near), cosine(query, far))
}

func TestEmbed_NoTokens(t *testing.T) {
	s := NewEmbeddingService(Config{Dimensions: 8})

	vec, err := s.Embed(context.Background(), "  the and of  ")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 0, 0, 0, 0, 0}, vec)
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	s := NewEmbeddingService(Config{Dimensions: 32})
	ctx := context.Background()

	batch, err := s.EmbedBatch(ctx, []string{"first text", "second text"})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	second, _ := s.Embed(ctx, "second text")
	assert.Equal(t, second, batch[1])
}

func TestEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEmbeddingService(Config{}).Embed(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}
