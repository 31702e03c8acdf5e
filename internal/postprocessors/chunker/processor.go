// Package chunker provides the fixed-size, overlapping text chunker.
package chunker

import (
	"context"
	"fmt"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// Split partitions text into windows of up to size characters. Each window
// after the first starts size-overlap characters past the previous start, so
// neighbours share overlap characters. Characters are Unicode code points.
//
// Text no longer than size yields exactly one chunk; empty text yields none.
// The last window always ends at the end of text.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidArgument, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidArgument, size, overlap)
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	n := len(runes)
	if n <= size {
		return []string{text}, nil
	}

	step := size - overlap
	chunks := make([]string, 0, (n-overlap+step-1)/step)
	for start := 0; ; start += step {
		end := start + size
		if end >= n {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks, nil
}

// Processor splits document content into fixed-size chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a chunker processor with the given options.
// An overlap that does not fit the chunk size is reduced to a quarter of it.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// NewStrict creates a chunker processor that rejects invalid parameters
// instead of adjusting them.
func NewStrict(size, overlap int) (*Processor, error) {
	if _, err := Split("", size, overlap); err != nil {
		return nil, err
	}
	return &Processor{chunkSize: size, overlap: overlap}, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
// Chunk IDs are left empty for the identity policy to assign.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts, err := Split(doc.Content, p.chunkSize, p.overlap)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			DocumentID: doc.ID,
			Content:    text,
			Position:   i,
			Metadata:   make(map[string]any),
		}
	}

	return chunks, nil
}
