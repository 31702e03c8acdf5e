// Package sqlite provides a VectorStore backed by a single SQLite file.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Embeddings are stored as little-endian float32 blobs and
// queries are an exact cosine scan over the collection, which suits the
// tens of thousands of chunks a document folder produces.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each collection row records its vector size, and
// reopening a collection with a different size fails.
//
// # Data Location
//
// The database is stored at <store.path>/vectors.db.
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite's WAL mode and
// a busy timeout for concurrent access.
package sqlite
