package http

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/logger"
)

// Upload error details.
const (
	detailUnsupported = "Only PDF and DOCX files are supported"
	detailNoFile      = "No file uploaded"
)

// uploadFormats are the formats the upload endpoint accepts.
var uploadFormats = map[string]domain.Format{
	".pdf":  domain.FormatPDF,
	".docx": domain.FormatDOCX,
}

// MessageResponse is the body of GET /.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Status          string `json:"status"`
	Filename        string `json:"filename"`
	ChunksCreated   int    `json:"chunks_created"`
	TotalCharacters int    `json:"total_characters"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

// SearchHit is one search result.
type SearchHit struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Filename string  `json:"filename"`
	ChunkID  int     `json:"chunk_id"`
	Score    float64 `json:"score"`
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(MessageResponse{Message: "StudentCompass Embeddings API is running!"})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}

// handleUpload stages the multipart "file" field to a temp file, runs it
// through the ingest service and reports the counts.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, detailNoFile)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	format, ok := uploadFormats[ext]
	if !ok {
		logger.Debug("Rejected upload %q", file.Filename)
		return detail(c, fiber.StatusBadRequest, detailUnsupported)
	}

	staged := filepath.Join(s.tempDir(), "compass-upload-"+uuid.NewString()+ext)
	defer func() {
		if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove staged upload %s: %v", staged, err)
		}
	}()

	if err := c.SaveFile(file, staged); err != nil {
		return processingError(c, fmt.Errorf("stage upload: %w", err))
	}
	content, err := os.ReadFile(staged)
	if err != nil {
		return processingError(c, fmt.Errorf("read staged upload: %w", err))
	}

	raw := &domain.RawDocument{
		URI:      staged,
		Filename: filepath.Base(file.Filename),
		MIMEType: format.MIMEType(),
		Content:  content,
	}
	result, err := s.ports.Ingest.Ingest(c.UserContext(), raw)
	if err != nil {
		return processingError(c, err)
	}

	return c.JSON(UploadResponse{
		Status:          "success",
		Filename:        raw.Filename,
		ChunksCreated:   result.ChunksCreated,
		TotalCharacters: result.TotalCharacters,
	})
}

// handleSearch answers GET /search?q=<text>&k=<n>.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	k := domain.DefaultSearchLimit
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return detail(c, fiber.StatusBadRequest, "k must be a positive integer")
		}
		k = n
	}

	results, err := s.ports.Search.Search(c.UserContext(), query, k)
	if err != nil {
		status := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("search %q: %v", query, err)
		}
		return detail(c, status, err.Error())
	}

	resp := SearchResponse{Query: query, Results: make([]SearchHit, len(results))}
	for i := range results {
		resp.Results[i] = SearchHit{
			ID:       results[i].ID,
			Text:     results[i].Text,
			Filename: results[i].Metadata.Filename,
			ChunkID:  results[i].Metadata.ChunkID,
			Score:    results[i].Score,
		}
	}
	return c.JSON(resp)
}

// handleStats answers GET /stats.
func (s *Server) handleStats(c *fiber.Ctx) error {
	stats, err := s.ports.Stats.Stats(c.UserContext())
	if err != nil {
		logger.Error("stats: %v", err)
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(stats)
}

// processingError reports an ingestion failure. Unsupported formats stay 400.
func processingError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		return detail(c, fiber.StatusBadRequest, err.Error())
	}
	logger.Error("upload: %v", err)
	return detail(c, fiber.StatusInternalServerError, "Error processing document: "+err.Error())
}

func (s *Server) tempDir() string {
	if s.cfg.TempDir != "" {
		return s.cfg.TempDir
	}
	return os.TempDir()
}
