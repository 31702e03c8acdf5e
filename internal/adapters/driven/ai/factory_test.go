package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantErr  bool
		model    string
		dims     int
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  true,
		},
		{
			name:     "hash default",
			settings: &domain.EmbeddingSettings{Provider: domain.EmbeddingProviderHash},
			model:    "hashing-v1",
			dims:     384,
		},
		{
			name:     "hash custom dimensions",
			settings: &domain.EmbeddingSettings{Provider: domain.EmbeddingProviderHash, Dimensions: 128},
			model:    "hashing-v1",
			dims:     128,
		},
		{
			name:     "ollama known model",
			settings: &domain.EmbeddingSettings{Provider: domain.EmbeddingProviderOllama, Model: "nomic-embed-text"},
			model:    "nomic-embed-text",
			dims:     768,
		},
		{
			name:     "openai without key",
			settings: &domain.EmbeddingSettings{Provider: domain.EmbeddingProviderOpenAI},
			wantErr:  true,
		},
		{
			name: "openai with key",
			settings: &domain.EmbeddingSettings{
				Provider: domain.EmbeddingProviderOpenAI,
				Model:    "text-embedding-3-small",
				APIKey:   "sk-test",
			},
			model: "text-embedding-3-small",
			dims:  1536,
		},
		{
			name:     "unknown provider",
			settings: &domain.EmbeddingSettings{Provider: "cohere"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.model, svc.ModelName())
			assert.Equal(t, tt.dims, svc.Dimensions())
		})
	}
}

func TestCreateAndValidateEmbeddingService_Hash(t *testing.T) {
	svc, err := CreateAndValidateEmbeddingService(context.Background(),
		&domain.EmbeddingSettings{Provider: domain.EmbeddingProviderHash})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateAndValidateEmbeddingService_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.EmbeddingProviderOllama,
		BaseURL:  srv.URL,
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Nil(t, svc)
}

func TestCreateAndValidateEmbeddingService_InvalidSettings(t *testing.T) {
	_, err := CreateAndValidateEmbeddingService(context.Background(),
		&domain.EmbeddingSettings{Provider: domain.EmbeddingProviderOpenAI})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
