package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/custodia-labs/compass-embed/internal/adapters/driving/http"
)

var (
	serveAddr      string
	serveAccessLog bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP upload server",
	Long: `Start the HTTP server.

Routes:
  GET  /                 liveness message
  GET  /health           health check
  POST /upload-document  multipart field "file" (.pdf or .docx)
  GET  /search?q=&k=     similarity search
  GET  /stats            collection statistics

The address defaults to server.address (0.0.0.0:8000).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default server.address)")
	serveCmd.Flags().BoolVar(&serveAccessLog, "access-log", false, "log every request")
	rootCmd.AddCommand(serveCmd)
}

// newHTTPServer builds the HTTP server from the configured services.
func newHTTPServer(maxUploadMB int) (*httpadapter.Server, error) {
	return httpadapter.NewServer(httpadapter.Ports{
		Ingest: ingestService,
		Search: searchService,
		Stats:  statsService,
	}, httpadapter.Config{
		MaxUploadMB: maxUploadMB,
		AccessLog:   serveAccessLog || verbose,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := activeSettings()
	if err != nil {
		return err
	}
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	server, err := newHTTPServer(settings.Server.MaxUploadMB)
	if err != nil {
		return err
	}

	addr := settings.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Serving on http://%s (store: %s)\n", addr, storeLocation(settings))
	return server.Run(ctx, addr)
}
