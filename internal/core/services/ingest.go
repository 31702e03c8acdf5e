package services

import (
	"context"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
	"github.com/custodia-labs/compass-embed/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs documents through extraction, chunking, embedding
// and storage.
type IngestService struct {
	registry         driven.NormaliserRegistry
	pipeline         driven.PostProcessorPipeline
	embeddingService driven.EmbeddingService
	store            driven.VectorStore
	ids              *IDPolicy
	progress         driven.ProgressReporter
}

// NewIngestService creates a new ingest service.
// A nil ids policy defaults to the path scheme.
func NewIngestService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embeddingService driven.EmbeddingService,
	store driven.VectorStore,
	ids *IDPolicy,
) *IngestService {
	if ids == nil {
		ids = &IDPolicy{scheme: domain.IDSchemePath}
	}
	return &IngestService{
		registry:         registry,
		pipeline:         pipeline,
		embeddingService: embeddingService,
		store:            store,
		ids:              ids,
	}
}

// SetProgressReporter sets the reporter advanced once per batch document.
// Pass nil to disable reporting.
func (s *IngestService) SetProgressReporter(reporter driven.ProgressReporter) {
	s.progress = reporter
}

// Ingest processes a single document.
func (s *IngestService) Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.IngestResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidArgument)
	}

	logger.Section("Ingest")
	logger.Debug("Document: %s", raw.URI)

	result, err := s.processOneDocument(ctx, raw)
	if err != nil {
		return nil, err
	}

	logger.Info("Ingested %s: %d chunks, %d characters",
		raw.DisplayFilename(), result.ChunksCreated, result.TotalCharacters)
	return result, nil
}

// IngestBatch processes documents sequentially and sums their results.
// The first failure aborts the batch; documents before it stay stored.
func (s *IngestService) IngestBatch(ctx context.Context, docs []domain.RawDocument) (*domain.IngestResult, error) {
	logger.Section("Batch Ingest")
	logger.Debug("Documents: %d", len(docs))

	if s.progress != nil {
		s.progress.Start(len(docs))
		defer s.progress.Finish()
	}

	total := &domain.IngestResult{}
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		logger.Debug("Processing: %s", docs[i].URI)
		result, err := s.processOneDocument(ctx, &docs[i])
		if err != nil {
			return total, fmt.Errorf("ingest %s: %w", docs[i].DisplayFilename(), err)
		}
		total.Add(*result)

		if s.progress != nil {
			s.progress.Increment()
		}
	}

	logger.Info("Batch complete: %d documents, %d chunks, %d characters",
		len(docs), total.ChunksCreated, total.TotalCharacters)
	return total, nil
}

// Count returns the number of records in the collection.
func (s *IngestService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// processOneDocument runs the extract, chunk, embed and upsert steps.
func (s *IngestService) processOneDocument(ctx context.Context, raw *domain.RawDocument) (*domain.IngestResult, error) {
	// 1. NORMALISE (produces Document with Content)
	normalised, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	doc := &normalised.Document
	result := &domain.IngestResult{TotalCharacters: utf8.RuneCountInString(doc.Content)}

	// 2. RUN POST-PROCESSOR PIPELINE (produces Chunks)
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("post-process: %w", err)
	}
	if len(chunks) == 0 {
		logger.Debug("No text extracted from %s, nothing to store", raw.DisplayFilename())
		return result, nil
	}

	// 3. GENERATE EMBEDDINGS (one batch per document)
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingUnavailable, len(vectors), len(chunks))
	}

	// 4. UPSERT INTO THE COLLECTION
	source := sourceKey(raw)
	filename := raw.DisplayFilename()
	ids := make([]string, len(chunks))
	metadatas := make([]domain.RecordMetadata, len(chunks))
	for i := range chunks {
		chunks[i].ID = s.ids.ChunkID(source, chunks[i].Position, chunks[i].Content)
		chunks[i].Embedding = vectors[i]
		ids[i] = chunks[i].ID
		metadatas[i] = domain.RecordMetadata{Filename: filename, ChunkID: chunks[i].Position}
	}
	if err := s.store.Upsert(ctx, ids, vectors, texts, metadatas); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	result.ChunksCreated = len(chunks)
	return result, nil
}

// sourceKey is the document identity used for chunk ids: the client
// filename for uploads, otherwise the absolute path the document was read
// from, so ./data/a.txt and /proj/data/a.txt share their records.
func sourceKey(raw *domain.RawDocument) string {
	if raw.Filename != "" {
		return raw.Filename
	}
	if raw.URI == "" {
		return ""
	}
	if abs, err := filepath.Abs(raw.URI); err == nil {
		return abs
	}
	return filepath.Clean(raw.URI)
}
