// Package http exposes the ingestion and search services over HTTP using fiber.
package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
	"github.com/custodia-labs/compass-embed/internal/logger"
)

// DefaultMaxUploadMB caps request bodies when Config.MaxUploadMB is unset.
const DefaultMaxUploadMB = 32

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("http: ingest service is required")

// Config holds server options.
type Config struct {
	// MaxUploadMB caps the multipart request body.
	MaxUploadMB int

	// TempDir is where uploads are staged. Empty uses os.TempDir.
	TempDir string

	// AccessLog enables per-request logging.
	AccessLog bool
}

// Ports aggregates the driving ports the server calls.
type Ports struct {
	Ingest driving.IngestService
	Search driving.SearchService
	Stats  driving.StatsService
}

// Server is the HTTP front end.
type Server struct {
	app   *fiber.App
	ports Ports
	cfg   Config
}

// NewServer creates a server with every route registered.
func NewServer(ports Ports, cfg Config) (*Server, error) {
	if ports.Ingest == nil {
		return nil, ErrMissingIngestService
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = DefaultMaxUploadMB
	}

	app := fiber.New(fiber.Config{
		AppName:               "compass-embed",
		BodyLimit:             cfg.MaxUploadMB * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s := &Server{app: app, ports: ports, cfg: cfg}

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{Output: logger.Output()}))
	}

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)
	app.Post("/upload-document", s.handleUpload)
	if ports.Search != nil {
		app.Get("/search", s.handleSearch)
	}
	if ports.Stats != nil {
		app.Get("/stats", s.handleStats)
	}

	return s, nil
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return err
		}
		return <-errCh
	}
}
