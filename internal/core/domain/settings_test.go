package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEmbeddingProvider_IsValid tests valid and invalid providers
func TestEmbeddingProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider EmbeddingProvider
		expected bool
	}{
		{name: "hash is valid", provider: EmbeddingProviderHash, expected: true},
		{name: "ollama is valid", provider: EmbeddingProviderOllama, expected: true},
		{name: "openai is valid", provider: EmbeddingProviderOpenAI, expected: true},
		{name: "empty string is invalid", provider: EmbeddingProvider(""), expected: false},
		{name: "unknown provider is invalid", provider: EmbeddingProvider("anthropic"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}

	for _, p := range AllEmbeddingProviders() {
		assert.True(t, p.IsValid(), p)
	}
}

// TestEmbeddingProvider_Properties tests provider capability helpers
func TestEmbeddingProvider_Properties(t *testing.T) {
	assert.False(t, EmbeddingProviderHash.RequiresAPIKey())
	assert.False(t, EmbeddingProviderOllama.RequiresAPIKey())
	assert.True(t, EmbeddingProviderOpenAI.RequiresAPIKey())

	assert.True(t, EmbeddingProviderHash.IsLocal())
	assert.True(t, EmbeddingProviderOllama.IsLocal())
	assert.False(t, EmbeddingProviderOpenAI.IsLocal())

	assert.Equal(t, "hash", EmbeddingProviderHash.String())
	assert.Equal(t, "Ollama (local)", EmbeddingProviderOllama.Description())
	assert.Equal(t, "Unknown", EmbeddingProvider("x").Description())
}

// TestDefaultEmbeddingModels tests every provider has a default model
func TestDefaultEmbeddingModels(t *testing.T) {
	models := DefaultEmbeddingModels()

	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, models[p], p)
	}
	assert.Equal(t, 384, EmbeddingDimensions()[models[EmbeddingProviderOllama]])
	assert.Equal(t, 1536, EmbeddingDimensions()[models[EmbeddingProviderOpenAI]])
}

// TestStoreBackend tests store backend helpers
func TestStoreBackend(t *testing.T) {
	assert.True(t, StoreBackendChromem.IsValid())
	assert.True(t, StoreBackendSQLite.IsValid())
	assert.True(t, StoreBackendMemory.IsValid())
	assert.False(t, StoreBackend("postgres").IsValid())

	assert.True(t, StoreBackendChromem.IsDurable())
	assert.True(t, StoreBackendSQLite.IsDurable())
	assert.False(t, StoreBackendMemory.IsDurable())
}

// TestIDScheme_IsValid tests id scheme validation
func TestIDScheme_IsValid(t *testing.T) {
	assert.True(t, IDSchemePath.IsValid())
	assert.True(t, IDSchemeLegacy.IsValid())
	assert.False(t, IDScheme("").IsValid())
	assert.False(t, IDScheme("uuid").IsValid())
}

// TestEmbeddingSettings_IsConfigured tests API key requirements
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: EmbeddingProviderHash}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: EmbeddingProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: EmbeddingProviderOpenAI, APIKey: "sk"}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

// TestChunkingSettings_Validate tests chunk size and overlap bounds
func TestChunkingSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       ChunkingSettings
		wantErr bool
	}{
		{"defaults", ChunkingSettings{Size: 500, Overlap: 50}, false},
		{"zero overlap", ChunkingSettings{Size: 10, Overlap: 0}, false},
		{"max overlap", ChunkingSettings{Size: 10, Overlap: 9}, false},
		{"zero size", ChunkingSettings{Size: 0, Overlap: 0}, true},
		{"negative size", ChunkingSettings{Size: -5, Overlap: 0}, true},
		{"overlap equals size", ChunkingSettings{Size: 10, Overlap: 10}, true},
		{"negative overlap", ChunkingSettings{Size: 10, Overlap: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidArgument))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestDefaultAppSettings tests the defaults are usable as-is
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	require.NoError(t, s.Validate())
	assert.Equal(t, EmbeddingProviderHash, s.Embedding.Provider)
	assert.Equal(t, "hashing-v1", s.Embedding.Model)
	assert.Equal(t, 0, s.Embedding.Dimensions)
	assert.Equal(t, StoreBackendChromem, s.Store.Backend)
	assert.Equal(t, "./chroma_db", s.Store.Path)
	assert.Equal(t, "student_compass_docs", s.Store.Collection)
	assert.Equal(t, ChunkingSettings{Size: 500, Overlap: 50}, s.Chunking)
	assert.Equal(t, IDSchemePath, s.IDScheme)
	assert.Equal(t, "0.0.0.0:8000", s.Server.Address)
	assert.Equal(t, "./data", s.Ingest.InputDir)
	assert.Equal(t, []string{"**/*.{pdf,docx,txt}"}, s.Ingest.Include)
}

// TestAppSettings_Validate tests that every problem is reported
func TestAppSettings_Validate(t *testing.T) {
	s := DefaultAppSettings()
	s.Embedding.Provider = EmbeddingProviderOpenAI
	s.Embedding.Dimensions = -1
	s.Store.Backend = "postgres"
	s.Store.Collection = ""
	s.Chunking.Overlap = 600
	s.IDScheme = "uuid"

	err := s.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	for _, want := range []string{"API key", "dimensions", "postgres", "collection", "overlap", "uuid"} {
		assert.Contains(t, err.Error(), want)
	}
}

// TestAppSettings_Validate_DurablePath tests durable backends need a path
func TestAppSettings_Validate_DurablePath(t *testing.T) {
	s := DefaultAppSettings()
	s.Store.Path = ""
	assert.Error(t, s.Validate())

	s.Store.Backend = StoreBackendMemory
	assert.NoError(t, s.Validate())
}
