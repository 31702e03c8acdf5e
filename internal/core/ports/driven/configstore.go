package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation ("store.backend"). Implementations handle
// persistence (TOML) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when missing or not a string.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when missing or not an integer.
	// Numeric strings from the environment overlay are parsed.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false when missing.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice, or nil when missing.
	// A comma-separated string is split.
	GetStringSlice(key string) []string

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Override sets a value for this process only. Overrides win over
	// persisted values and are never written to disk.
	Override(key string, value any)

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
