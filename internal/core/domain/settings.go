package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// EmbeddingProvider identifies the embedding backend.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderHash is the local feature-hashing embedder.
	EmbeddingProviderHash EmbeddingProvider = "hash"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI API or a compatible server.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// AllEmbeddingProviders returns every provider in menu order.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{EmbeddingProviderHash, EmbeddingProviderOllama, EmbeddingProviderOpenAI}
}

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderHash, EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// IsLocal returns true if this provider runs on this machine.
func (p EmbeddingProvider) IsLocal() bool {
	return p == EmbeddingProviderHash || p == EmbeddingProviderOllama
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderHash:
		return "Hash (local, offline)"
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultEmbeddingModels returns the default model per provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderHash:   "hashing-v1",
		EmbeddingProviderOllama: "all-minilm",
		EmbeddingProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns known vector sizes per model.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"all-minilm":             384,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// StoreBackend identifies the vector store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendChromem is the embedded chromem-go persistent collection.
	StoreBackendChromem StoreBackend = "chromem"

	// StoreBackendSQLite is a SQLite database with float32 vector blobs.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendMemory keeps records in process memory only.
	StoreBackendMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendChromem, StoreBackendSQLite, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// IsDurable returns true if records survive a restart.
func (b StoreBackend) IsDurable() bool {
	return b == StoreBackendChromem || b == StoreBackendSQLite
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// IDScheme selects how chunk identifiers are derived.
type IDScheme string

// Available id schemes.
const (
	// IDSchemePath keys chunks by (source path, chunk index) composed with a content hash.
	IDSchemePath IDScheme = "path"

	// IDSchemeLegacy reproduces the doc_{index}_{hash} ids of existing collections.
	// Byte-identical chunks at the same index of different documents share an id.
	IDSchemeLegacy IDScheme = "legacy"
)

// IsValid returns true if the scheme is recognised.
func (s IDScheme) IsValid() bool {
	return s == IDSchemePath || s == IDSchemeLegacy
}

// String returns the string representation.
func (s IDScheme) String() string {
	return string(s)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size D. Zero selects the model's native size.
	Dimensions int

	// RequestsPerSecond paces remote providers. Zero disables pacing.
	RequestsPerSecond int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// StoreSettings holds vector store configuration.
type StoreSettings struct {
	// Backend is the store implementation.
	Backend StoreBackend

	// Path is the on-disk persistence directory.
	Path string

	// Collection is the name of the single collection.
	Collection string
}

// ChunkingSettings holds text chunker configuration.
type ChunkingSettings struct {
	// Size is the maximum number of characters per chunk.
	Size int

	// Overlap is the number of characters shared by neighbouring chunks.
	Overlap int
}

// Validate checks 0 < Size and 0 <= Overlap < Size.
func (c ChunkingSettings) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidArgument, c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidArgument, c.Size, c.Overlap)
	}
	return nil
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Address is the listen address (host:port).
	Address string

	// MaxUploadMB caps the multipart request body.
	MaxUploadMB int
}

// IngestSettings holds batch ingestion configuration.
type IngestSettings struct {
	// InputDir is the directory scanned by the batch command.
	InputDir string

	// Include lists doublestar patterns, relative to InputDir, of files to ingest.
	Include []string

	// Exclude lists doublestar patterns of files to skip.
	Exclude []string
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	Store     StoreSettings
	Chunking  ChunkingSettings
	IDScheme  IDScheme
	Server    ServerSettings
	Ingest    IngestSettings
}

// DefaultAppSettings returns the local defaults: offline 384-dimensional
// embeddings, the student_compass_docs collection under ./chroma_db and
// 500/50 character chunks.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: EmbeddingProviderHash,
			Model:    DefaultEmbeddingModels()[EmbeddingProviderHash],
		},
		Store: StoreSettings{
			Backend:    StoreBackendChromem,
			Path:       "./chroma_db",
			Collection: "student_compass_docs",
		},
		Chunking: ChunkingSettings{
			Size:    500,
			Overlap: 50,
		},
		IDScheme: IDSchemePath,
		Server: ServerSettings{
			Address:     "0.0.0.0:8000",
			MaxUploadMB: 32,
		},
		Ingest: IngestSettings{
			InputDir: "./data",
			Include:  []string{"**/*.{pdf,docx,txt}"},
		},
	}
}

// Validate checks the settings are usable together.
func (s *AppSettings) Validate() error {
	var problems []string

	if !s.Embedding.Provider.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown embedding provider %q", s.Embedding.Provider))
	} else if !s.Embedding.IsConfigured() {
		problems = append(problems, fmt.Sprintf("embedding provider %s requires an API key", s.Embedding.Provider))
	}
	if s.Embedding.Dimensions < 0 {
		problems = append(problems, "embedding dimensions must not be negative")
	}
	if !s.Store.Backend.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown store backend %q", s.Store.Backend))
	}
	if s.Store.Backend.IsDurable() && s.Store.Path == "" {
		problems = append(problems, "store path is required for durable backends")
	}
	if s.Store.Collection == "" {
		problems = append(problems, "collection name is required")
	}
	if err := s.Chunking.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if !s.IDScheme.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown id scheme %q", s.IDScheme))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, strings.Join(problems, "; "))
	}
	return nil
}
