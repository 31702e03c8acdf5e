package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider     = "embedding.provider"
	KeyEmbedModel        = "embedding.model"
	KeyEmbedBaseURL      = "embedding.base_url"
	KeyEmbedAPIKey       = "embedding.api_key"
	KeyEmbedDimensions   = "embedding.dimensions"
	KeyEmbedRPS          = "embedding.requests_per_second"
	KeyStoreBackend      = "store.backend"
	KeyStorePath         = "store.path"
	KeyStoreCollection   = "store.collection"
	KeyChunkingSize      = "chunking.size"
	KeyChunkingOverlap   = "chunking.overlap"
	KeyIDScheme          = "ids.scheme"
	KeyServerAddress     = "server.address"
	KeyServerMaxUploadMB = "server.max_upload_mb"
	KeyIngestInputDir    = "ingest.input_dir"
	KeyIngestInclude     = "ingest.include"
	KeyIngestExclude     = "ingest.exclude"
)

// settingKeys lists every settable key in display order.
var settingKeys = []string{
	KeyEmbedProvider,
	KeyEmbedModel,
	KeyEmbedBaseURL,
	KeyEmbedAPIKey,
	KeyEmbedDimensions,
	KeyEmbedRPS,
	KeyStoreBackend,
	KeyStorePath,
	KeyStoreCollection,
	KeyChunkingSize,
	KeyChunkingOverlap,
	KeyIDScheme,
	KeyServerAddress,
	KeyServerMaxUploadMB,
	KeyIngestInputDir,
	KeyIngestInclude,
	KeyIngestExclude,
}

// SettingKeys returns every settable key in display order.
func SettingKeys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or unrecognised values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Embedding.Provider)
	model := s.configStore.GetString(KeyEmbedModel)
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          provider,
			Model:             model,
			BaseURL:           s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:            s.configStore.GetString(KeyEmbedAPIKey),
			Dimensions:        s.getInt(KeyEmbedDimensions, defaults.Embedding.Dimensions),
			RequestsPerSecond: s.getInt(KeyEmbedRPS, defaults.Embedding.RequestsPerSecond),
		},
		Store: domain.StoreSettings{
			Backend:    s.getBackend(defaults.Store.Backend),
			Path:       s.getString(KeyStorePath, defaults.Store.Path),
			Collection: s.getString(KeyStoreCollection, defaults.Store.Collection),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(KeyChunkingSize, defaults.Chunking.Size),
			Overlap: s.getInt(KeyChunkingOverlap, defaults.Chunking.Overlap),
		},
		IDScheme: s.getIDScheme(defaults.IDScheme),
		Server: domain.ServerSettings{
			Address:     s.getString(KeyServerAddress, defaults.Server.Address),
			MaxUploadMB: s.getInt(KeyServerMaxUploadMB, defaults.Server.MaxUploadMB),
		},
		Ingest: domain.IngestSettings{
			InputDir: s.getString(KeyIngestInputDir, defaults.Ingest.InputDir),
			Include:  s.getStringSlice(KeyIngestInclude, defaults.Ingest.Include),
			Exclude:  s.getStringSlice(KeyIngestExclude, defaults.Ingest.Exclude),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidArgument)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedDimensions, settings.Embedding.Dimensions},
		{KeyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{KeyStoreBackend, settings.Store.Backend.String()},
		{KeyStorePath, settings.Store.Path},
		{KeyStoreCollection, settings.Store.Collection},
		{KeyChunkingSize, settings.Chunking.Size},
		{KeyChunkingOverlap, settings.Chunking.Overlap},
		{KeyIDScheme, settings.IDScheme.String()},
		{KeyServerAddress, settings.Server.Address},
		{KeyServerMaxUploadMB, settings.Server.MaxUploadMB},
		{KeyIngestInputDir, settings.Ingest.InputDir},
		{KeyIngestInclude, nonNil(settings.Ingest.Include)},
		{KeyIngestExclude, nonNil(settings.Ingest.Exclude)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Keep an unset key out of the file.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(KeyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyEmbedAPIKey, err)
		}
	}

	return nil
}

// Set updates a single setting by dotted key and persists it.
// Selecting a new embedding provider also resets the model to that
// provider's default when the stored model belonged to another provider.
//
//nolint:gocyclo // One case per key
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	var stored any = value
	switch key {
	case KeyEmbedProvider:
		provider := domain.EmbeddingProvider(value)
		if !provider.IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidArgument, value)
		}
		if isDefaultModel(settings.Embedding.Model) &&
			settings.Embedding.Model != domain.DefaultEmbeddingModels()[provider] {
			if err := s.configStore.Set(KeyEmbedModel, domain.DefaultEmbeddingModels()[provider]); err != nil {
				return fmt.Errorf("save %s: %w", KeyEmbedModel, err)
			}
		}
	case KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyServerAddress, KeyIngestInputDir:
	case KeyStorePath, KeyStoreCollection:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidArgument, key)
		}
	case KeyEmbedDimensions, KeyEmbedRPS, KeyServerMaxUploadMB:
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		stored = n
	case KeyChunkingSize, KeyChunkingOverlap:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %s", domain.ErrInvalidArgument, key, value)
		}
		chunking := settings.Chunking
		if key == KeyChunkingSize {
			chunking.Size = n
		} else {
			chunking.Overlap = n
		}
		if err := chunking.Validate(); err != nil {
			return err
		}
		stored = n
	case KeyStoreBackend:
		if !domain.StoreBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid store backend: %s", domain.ErrInvalidArgument, value)
		}
	case KeyIDScheme:
		if !domain.IDScheme(value).IsValid() {
			return fmt.Errorf("%w: invalid id scheme: %s", domain.ErrInvalidArgument, value)
		}
	case KeyIngestInclude, KeyIngestExclude:
		stored = splitList(value)
	default:
		return fmt.Errorf("%w: unknown setting: %s", domain.ErrInvalidArgument, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// Lookup returns the current value of key formatted for display.
// API keys are masked.
func (s *SettingsService) Lookup(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeyEmbedProvider:
		return settings.Embedding.Provider.String(), nil
	case KeyEmbedModel:
		return settings.Embedding.Model, nil
	case KeyEmbedBaseURL:
		return settings.Embedding.BaseURL, nil
	case KeyEmbedAPIKey:
		return MaskSecret(settings.Embedding.APIKey), nil
	case KeyEmbedDimensions:
		return strconv.Itoa(settings.Embedding.Dimensions), nil
	case KeyEmbedRPS:
		return strconv.Itoa(settings.Embedding.RequestsPerSecond), nil
	case KeyStoreBackend:
		return settings.Store.Backend.String(), nil
	case KeyStorePath:
		return settings.Store.Path, nil
	case KeyStoreCollection:
		return settings.Store.Collection, nil
	case KeyChunkingSize:
		return strconv.Itoa(settings.Chunking.Size), nil
	case KeyChunkingOverlap:
		return strconv.Itoa(settings.Chunking.Overlap), nil
	case KeyIDScheme:
		return settings.IDScheme.String(), nil
	case KeyServerAddress:
		return settings.Server.Address, nil
	case KeyServerMaxUploadMB:
		return strconv.Itoa(settings.Server.MaxUploadMB), nil
	case KeyIngestInputDir:
		return settings.Ingest.InputDir, nil
	case KeyIngestInclude:
		return strings.Join(settings.Ingest.Include, ","), nil
	case KeyIngestExclude:
		return strings.Join(settings.Ingest.Exclude, ","), nil
	default:
		return "", fmt.Errorf("%w: unknown setting: %s", domain.ErrInvalidArgument, key)
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// MaskSecret hides all but the last four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt returns defaultVal only when key is absent, so an explicit 0 is kept.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	provider := domain.EmbeddingProvider(s.configStore.GetString(KeyEmbedProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.configStore.GetString(KeyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getIDScheme(defaultVal domain.IDScheme) domain.IDScheme {
	scheme := domain.IDScheme(s.configStore.GetString(KeyIDScheme))
	if !scheme.IsValid() {
		return defaultVal
	}
	return scheme
}

func isDefaultModel(model string) bool {
	for _, m := range domain.DefaultEmbeddingModels() {
		if m == model {
			return true
		}
	}
	return false
}

func parseNonNegative(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer: %s", domain.ErrInvalidArgument, key, value)
	}
	return n, nil
}

func splitList(value string) []string {
	items := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
