// Package domain defines the core entities of compass-embed.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - RawDocument: Uploaded or on-disk bytes before text extraction
//   - Document: Extracted text of one source file
//   - Chunk: A bounded substring of a Document, the unit of embedding
//   - Record: A persisted (id, vector, text, metadata) entry of the collection
//   - QueryHit: A nearest-neighbour match returned by the vector store
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
