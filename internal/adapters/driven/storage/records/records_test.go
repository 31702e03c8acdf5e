package records

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

func meta(n int) []domain.RecordMetadata {
	return make([]domain.RecordMetadata, n)
}

func TestValidate(t *testing.T) {
	vec := []float32{1, 0}

	tests := []struct {
		name    string
		ids     []string
		vectors [][]float32
		texts   []string
		metas   []domain.RecordMetadata
		wantErr bool
	}{
		{"valid", []string{"a", "b"}, [][]float32{vec, vec}, []string{"x", "y"}, meta(2), false},
		{"empty batch", nil, nil, nil, nil, false},
		{"length mismatch", []string{"a"}, [][]float32{vec, vec}, []string{"x"}, meta(1), true},
		{"empty id", []string{""}, [][]float32{vec}, []string{"x"}, meta(1), true},
		{"duplicate id", []string{"a", "a"}, [][]float32{vec, vec}, []string{"x", "y"}, meta(2), true},
		{"wrong dimensions", []string{"a"}, [][]float32{{1, 2, 3}}, []string{"x"}, meta(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.ids, tt.vectors, tt.texts, tt.metas, 2)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckQuery(t *testing.T) {
	assert.NoError(t, CheckQuery([]float32{1, 0}, 3, 2))
	assert.ErrorIs(t, CheckQuery([]float32{1, 0}, 0, 2), domain.ErrInvalidArgument)
	assert.ErrorIs(t, CheckQuery([]float32{1}, 3, 2), domain.ErrInvalidArgument)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 1}, []float32{2, 2}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 0}))
}

func TestTopK(t *testing.T) {
	hits := []domain.QueryHit{
		{ID: "c", Score: 0.2},
		{ID: "b", Score: 0.9},
		{ID: "a", Score: 0.9},
		{ID: "d", Score: 0.5},
	}

	top := TopK(hits, 3)
	assert.Equal(t, []string{"a", "b", "d"}, []string{top[0].ID, top[1].ID, top[2].ID})
	assert.Len(t, TopK(hits, 10), 4)
}
