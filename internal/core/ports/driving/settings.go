package driving

import "github.com/custodia-labs/compass-embed/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults applied.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by dotted key (e.g. "store.backend").
	Set(key, value string) error

	// Keys returns every settable key in display order.
	Keys() []string

	// Lookup returns the current value of key formatted for display.
	Lookup(key string) (string, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks the current settings.
	Validate() error
}
