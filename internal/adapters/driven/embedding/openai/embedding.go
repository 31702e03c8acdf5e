// Package openai embeds chunks through the OpenAI embeddings API or any
// server speaking the same protocol.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/embedding"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second

	fallbackDimensions = 1536

	// maxInputs is the per-request input limit of the embeddings endpoint.
	maxInputs = 2048
)

// Config configures the adapter. Only APIKey is required; BaseURL may point
// at Azure OpenAI or any compatible server.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions requests shortened vectors from text-embedding-3 models.
	// Zero keeps the model default.
	Dimensions int

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64
}

// EmbeddingService is a driven.EmbeddingService backed by go-openai.
type EmbeddingService struct {
	client     *goopenai.Client
	httpClient *http.Client
	limiter    *embedding.RateLimiter
	model      string
	dimensions int
}

// NewEmbeddingService validates cfg and fills in defaults.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key is required", domain.ErrInvalidArgument)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	dims := cfg.Dimensions
	if dims == 0 {
		if known, ok := domain.EmbeddingDimensions()[cfg.Model]; ok {
			dims = known
		} else {
			dims = fallbackDimensions
		}
	}

	limiter := embedding.NewRateLimiter(cfg.RequestsPerSecond, 1)
	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: limiter.Transport(nil),
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = httpClient

	return &EmbeddingService{
		client:     goopenai.NewClientWithConfig(clientCfg),
		httpClient: httpClient,
		limiter:    limiter,
		model:      cfg.Model,
		dimensions: dims,
	}, nil
}

// Embed returns the vector for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: openai returned no embedding", domain.ErrEmbeddingUnavailable)
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in order, splitting into requests of at most
// maxInputs inputs.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxInputs {
		end := min(start+maxInputs, len(texts))
		vecs, err := s.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(s.model),
	}
	if supportsDimensions(s.model) {
		req.Dimensions = s.dimensions
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, unavailable(err)
	}
	return s.collect(resp.Data, len(texts))
}

// collect places each returned vector at its input index and checks sizes.
func (s *EmbeddingService) collect(data []goopenai.Embedding, n int) ([][]float32, error) {
	vecs := make([][]float32, n)
	for _, d := range data {
		if d.Index < 0 || d.Index >= n {
			return nil, fmt.Errorf("%w: openai returned out-of-range index %d",
				domain.ErrEmbeddingUnavailable, d.Index)
		}
		vecs[d.Index] = append([]float32(nil), d.Embedding...)
	}
	for i, vec := range vecs {
		if len(vec) != s.dimensions {
			return nil, fmt.Errorf("%w: openai input %d: got %d dimensions, expected %d",
				domain.ErrEmbeddingUnavailable, i, len(vec), s.dimensions)
		}
	}
	return vecs, nil
}

// unavailable wraps a client error, keeping the API message when there is one.
func unavailable(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: openai status %d: %s",
			domain.ErrEmbeddingUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: openai: %v", domain.ErrEmbeddingUnavailable, err)
}

// supportsDimensions reports whether model accepts the dimensions parameter.
func supportsDimensions(model string) bool {
	return strings.HasPrefix(model, "text-embedding-3-")
}

func (s *EmbeddingService) Dimensions() int   { return s.dimensions }
func (s *EmbeddingService) ModelName() string { return s.model }

// Ping lists models, which checks the key without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *EmbeddingService) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}
