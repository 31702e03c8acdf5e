package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection statistics",
	Long:  `Shows the collection name, record count, vector size and embedding model.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	settings, err := activeSettings()
	if err != nil {
		return err
	}
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	stats, err := statsService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Collection:  %s\n", stats.Collection)
	cmd.Printf("Embeddings:  %d\n", stats.Count)
	cmd.Printf("Dimensions:  %d\n", stats.Dimensions)
	cmd.Printf("Model:       %s\n", stats.Model)
	cmd.Printf("Store:       %s (%s)\n", settings.Store.Backend, storeLocation(settings))
	return nil
}
