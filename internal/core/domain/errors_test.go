package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrInvalidArgument", ErrInvalidArgument},
		{"ErrStoreUnavailable", ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that no sentinel matches another
func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrUnsupportedFormat,
		ErrEmbeddingUnavailable, ErrInvalidArgument, ErrStoreUnavailable,
	}

	for i, a := range all {
		for j, b := range all {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

// TestErrors_Wrapped tests classification through wrapping
func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("ingest notes.md: %w", fmt.Errorf("%w: md", ErrUnsupportedFormat))

	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, "ingest notes.md: unsupported format: md", err.Error())
}
