package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
	"github.com/custodia-labs/compass-embed/internal/core/services"
	"github.com/custodia-labs/compass-embed/internal/normalisers"
	"github.com/custodia-labs/compass-embed/internal/postprocessors"
)

// setupTestServices wires in-memory services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	oldSettings, oldIngest, oldSearch, oldStats := settingsService, ingestService, searchService, statsService

	embedder := hash.NewEmbeddingService(hash.Config{})
	store, err := memory.NewVectorStore("test_docs", embedder.Dimensions())
	if err != nil {
		panic(err)
	}
	pipeline, err := postprocessors.NewChunkingPipeline(domain.ChunkingSettings{Size: 500, Overlap: 50})
	if err != nil {
		panic(err)
	}

	search := services.NewSearchService(embedder, store)
	settingsService = services.NewSettingsService(memory.NewConfigStore())
	ingestService = services.NewIngestService(normalisers.NewDefaultRegistry(), pipeline, embedder, store, nil)
	searchService = search
	statsService = search

	return func() {
		settingsService, ingestService, searchService, statsService = oldSettings, oldIngest, oldSearch, oldStats
	}
}

// resetFlags restores flag variables to their defaults between runs.
func resetFlags() {
	verbose = false
	ephemeral = false
	searchLimit = domain.DefaultSearchLimit
	searchJSON = false
	statusJSON = false
	ingestInclude = nil
	ingestExclude = nil
	ingestWatch = false
	ingestNoProgress = false
	serveAddr = ""
	serveAccessLog = false
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// ingestText stores a text document through the configured ingest service.
func ingestText(name, content string) error {
	doc := domain.RawDocument{URI: "data/" + name, Content: []byte(content)}
	_, err := ingestService.Ingest(context.Background(), &doc)
	return err
}

// mockSearchServiceError fails every search.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return nil, fmt.Errorf("%w: index offline", domain.ErrStoreUnavailable)
}

// mockStatsServiceError fails every stats call.
type mockStatsServiceError struct{}

func (m *mockStatsServiceError) Stats(_ context.Context) (*driving.CollectionStats, error) {
	return nil, fmt.Errorf("%w: index offline", domain.ErrStoreUnavailable)
}

func repeatText(word string, n int) string {
	return strings.Repeat(word, n/len(word)+1)[:n]
}
