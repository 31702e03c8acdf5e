// Package cli provides the cobra command tree for compass-embed.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/compass-embed/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var (
	configDir string
	verbose   bool
	ephemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "compass-embed",
	Short: "Chunk, embed and search course documents",
	Long: `compass-embed turns PDF, DOCX and plain text documents into embedded
chunks stored in a local vector collection, and answers similarity queries
over them.

Documents arrive through the HTTP upload endpoint (serve) or from a
directory (ingest). Queries run from the command line (search), over HTTP
or through the MCP server (mcp serve).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.compass-embed)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "use an in-memory store for this run")
}

// Execute runs the root command and releases any opened services.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}
