// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps chunk text to fixed-dimension vectors
//   - VectorStore: Durable id -> (vector, text, metadata) collection with nearest-neighbour query
//   - Normaliser: Extracts text from one document format
//   - NormaliserRegistry: Selects the normaliser for a document
//   - PostProcessorPipeline: Turns extracted text into chunks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - ProgressReporter: Batch ingestion progress. Nil disables reporting.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
