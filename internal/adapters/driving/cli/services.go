package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/ai"
	"github.com/custodia-labs/compass-embed/internal/adapters/driven/config"
	"github.com/custodia-labs/compass-embed/internal/adapters/driven/config/file"
	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
	"github.com/custodia-labs/compass-embed/internal/core/services"
	"github.com/custodia-labs/compass-embed/internal/logger"
	"github.com/custodia-labs/compass-embed/internal/normalisers"
	"github.com/custodia-labs/compass-embed/internal/postprocessors"
)

// Services used by the commands. They are built on first use; tests assign
// them directly.
var (
	settingsService driving.SettingsService
	ingestService   driving.IngestService
	searchService   driving.SearchService
	statsService    driving.StatsService
)

// closers release what ensureServices opened, in reverse order.
var closers []func() error

// progressReporterSetter is implemented by ingest services that report
// batch progress.
type progressReporterSetter interface {
	SetProgressReporter(r driven.ProgressReporter)
}

// ensureSettings opens the config store and applies .env and environment
// overrides on top of it.
func ensureSettings() error {
	if settingsService != nil {
		return nil
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	if applied := config.ApplyEnv(store, services.SettingKeys()); len(applied) > 0 {
		logger.Debug("environment overrides: %s", strings.Join(applied, ", "))
	}

	settingsService = services.NewSettingsService(store)
	return nil
}

// activeSettings returns the settings for this run, with --ephemeral applied.
func activeSettings() (*domain.AppSettings, error) {
	if err := ensureSettings(); err != nil {
		return nil, err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if ephemeral {
		settings.Store.Backend = domain.StoreBackendMemory
	}
	return settings, nil
}

// ensureServices wires the embedding service, vector store and core
// services from the active settings.
func ensureServices(ctx context.Context) error {
	if ingestService != nil && searchService != nil && statsService != nil {
		return nil
	}

	settings, err := activeSettings()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	logger.Section("Services")
	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return err
	}
	closers = append(closers, embedder.Close)
	logger.Debug("embedding: %s (%s, %d dimensions)", settings.Embedding.Provider, embedder.ModelName(), embedder.Dimensions())

	store, err := storage.NewVectorStore(settings.Store, embedder.Dimensions())
	if err != nil {
		return err
	}
	closers = append(closers, store.Close)
	logger.Debug("store: %s collection %q at %s", settings.Store.Backend, store.Name(), settings.Store.Path)

	pipeline, err := postprocessors.NewChunkingPipeline(settings.Chunking)
	if err != nil {
		return err
	}
	ids, err := services.NewIDPolicy(settings.IDScheme)
	if err != nil {
		return err
	}

	search := services.NewSearchService(embedder, store)
	ingestService = services.NewIngestService(normalisers.NewDefaultRegistry(), pipeline, embedder, store, ids)
	searchService = search
	statsService = search
	return nil
}

// closeServices releases everything ensureServices opened.
func closeServices() {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	closers = nil
	if err := errors.Join(errs...); err != nil {
		logger.Warn("closing services: %v", err)
	}
}

// storeLocation describes where records are persisted.
func storeLocation(settings *domain.AppSettings) string {
	if !settings.Store.Backend.IsDurable() {
		return "memory (not persisted)"
	}
	return settings.Store.Path
}
