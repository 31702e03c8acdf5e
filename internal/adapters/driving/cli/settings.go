package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/ai"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml.

Environment variables named COMPASS_<SECTION>_<KEY> (for example
COMPASS_STORE_PATH) and a .env file in the working directory override the
file for a single run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Validate and store one setting. Lists such as ingest.include take
comma-separated values.

Keys:
  ` + strings.Join(services.SettingKeys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Choose the embedding provider and model interactively, then check the provider is reachable.`,
	RunE:  runSettingsEmbedding,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settingsService.Keys() {
		value, err := settingsService.Lookup(key)
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		prefix, name, _ := strings.Cut(key, ".")
		if prefix != section {
			section = prefix
			cmd.Println()
			cmd.Printf("[%s]\n", section)
		}
		if value == "" {
			value = "(not set)"
		}
		cmd.Printf("  %s: %s\n", name, value)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'compass-embed settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}
	value, err := settingsService.Lookup(args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	value, err := settingsService.Lookup(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", args[0], value)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}
	return configureEmbeddingProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var baseURL string
	if selected != domain.EmbeddingProviderHash {
		cmd.Print("Enter base URL [provider default]: ")
		baseURL = readLine(reader)
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	settings.Embedding.Provider = selected
	settings.Embedding.Model = model
	settings.Embedding.BaseURL = baseURL
	if apiKey != "" {
		settings.Embedding.APIKey = apiKey
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	svc, err := ai.CreateAndValidateEmbeddingService(cmd.Context(), &settings.Embedding)
	if err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	dims := svc.Dimensions()
	_ = svc.Close()
	cmd.Println("OK")

	updates := [][2]string{
		{services.KeyEmbedProvider, string(selected)},
		{services.KeyEmbedModel, model},
		{services.KeyEmbedBaseURL, baseURL},
	}
	if apiKey != "" {
		updates = append(updates, [2]string{services.KeyEmbedAPIKey, apiKey})
	}
	for _, u := range updates {
		if err := settingsService.Set(u[0], u[1]); err != nil {
			return fmt.Errorf("failed to configure embedding provider: %w", err)
		}
	}
	cmd.Printf("Embedding provider configured: %s (%s, %d dimensions)\n", selected.Description(), model, dims)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal, otherwise a line from reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}
