package postprocessors

import (
	"strconv"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
	"github.com/custodia-labs/compass-embed/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// NewChunkingPipeline builds the default pipeline for the given chunking settings.
// Invalid settings are rejected with domain.ErrInvalidArgument.
func NewChunkingPipeline(settings domain.ChunkingSettings) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(Stage{
		Name: "chunker",
		Config: map[string]any{
			"chunk_size": settings.Size,
			"overlap":    settings.Overlap,
		},
	})
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 500)
//   - overlap (int): Overlapping characters between chunks (default: 50)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	size := chunker.DefaultChunkSize
	overlap := chunker.DefaultChunkOverlap

	if v, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		size = v
	}
	if v, ok := getIntFromConfig(cfg, "overlap"); ok {
		overlap = v
	}

	processor, err := chunker.NewStrict(size, overlap)
	if err != nil {
		return nil, err
	}
	return processor, nil
}

// getIntFromConfig extracts an int from a generic config map.
// Handles the int, int64 and float64 values TOML and JSON produce,
// and numeric strings from the environment.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
