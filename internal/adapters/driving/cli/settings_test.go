package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

func TestSettingsCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range settingsCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "get", "set", "embedding"}, names)
}

func TestSettingsSetCmd_LongListsKeys(t *testing.T) {
	assert.Contains(t, settingsSetCmd.Long, "store.collection")
	assert.Contains(t, settingsSetCmd.Long, "ingest.include")
}

func TestSettingsCmd_Show(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "[embedding]")
	assert.Contains(t, out, "  provider: hash")
	assert.Contains(t, out, "  api_key: (not set)")
	assert.Contains(t, out, "[store]")
	assert.Contains(t, out, "  collection: student_compass_docs")
	assert.Contains(t, out, "  include: **/*.{pdf,docx,txt}")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_ShowWarnsWhenInvalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.Set("embedding.provider", "openai"))

	out, err := executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "compass-embed settings set")
}

func TestSettingsCmd_SetAndGet(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings", "set", "store.collection", "course_docs")
	require.NoError(t, err)
	assert.Contains(t, out, "Set store.collection = course_docs")

	out, err = executeCommand("settings", "get", "store.collection")
	require.NoError(t, err)
	assert.Equal(t, "course_docs", strings.TrimSpace(out))
}

func TestSettingsCmd_SetMasksAPIKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings", "set", "embedding.api_key", "sk-abcdef123456")

	require.NoError(t, err)
	assert.Contains(t, out, "****3456")
	assert.NotContains(t, out, "sk-abcdef")
}

func TestSettingsCmd_SetInvalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("settings", "set", "chunking.overlap", "900")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestSettingsCmd_GetUnknownKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("settings", "get", "search.mode")

	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestSettingsCmd_SetRequiresTwoArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("settings", "set", "store.path")

	assert.Error(t, err)
}

func TestSettingsEmbeddingCmd_Hash(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.Set("embedding.provider", "ollama"))
	rootCmd.SetIn(strings.NewReader("1\n\n"))

	out, err := executeCommand("settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Contains(t, out, "Embedding provider configured: Hash (local, offline) (hashing-v1, 384 dimensions)")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingProviderHash, settings.Embedding.Provider)
	assert.Equal(t, "hashing-v1", settings.Embedding.Model)
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"Empty input returns default", "", 5, 1, 1},
		{"Valid choice within range", "3", 5, 1, 3},
		{"Choice below minimum returns default", "0", 5, 1, 1},
		{"Choice above maximum returns default", "6", 5, 1, 1},
		{"Invalid input returns default", "abc", 5, 2, 2},
		{"Negative number returns default", "-1", 5, 1, 1},
		{"Whitespace returns default", "   ", 5, 1, 1},
		{"Maximum value is valid", "5", 5, 1, 5},
		{"Minimum value is valid", "1", 5, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
