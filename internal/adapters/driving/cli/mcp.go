package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/compass-embed/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
the collection.

Exposes the "search" tool and the compass://collection resource.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start a streamable HTTP server instead.

Examples:
  # Stdio mode (default)
  compass-embed mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  compass-embed mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "compass": {
        "command": "/path/to/compass-embed",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search: searchService,
		Stats:  statsService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
