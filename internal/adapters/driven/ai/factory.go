// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	hashembed "github.com/custodia-labs/compass-embed/internal/adapters/driven/embedding/hash"
	ollamaembed "github.com/custodia-labs/compass-embed/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/compass-embed/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'compass-embed settings set embedding.provider hash' for offline use",
			domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%s embedding service unreachable: %w", settings.Provider, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: embedding settings are missing", domain.ErrInvalidArgument)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrInvalidArgument, settings.Provider)
	}

	switch settings.Provider {
	case domain.EmbeddingProviderHash:
		return hashembed.NewEmbeddingService(hashembed.Config{
			Dimensions: settings.Dimensions,
		}), nil

	case domain.EmbeddingProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: float64(settings.RequestsPerSecond),
		}), nil

	case domain.EmbeddingProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: float64(settings.RequestsPerSecond),
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}
