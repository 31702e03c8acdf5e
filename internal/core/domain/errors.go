package domain

import "errors"

// Domain errors represent pipeline failures callers can classify with errors.Is.
// Adapters wrap them with context; boundaries map them to exit codes or HTTP statuses.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed document bytes that a parser could not read.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a document whose extension is not pdf, docx or txt,
	// or an upload whose extension the endpoint does not accept.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmbeddingUnavailable indicates the embedding model could not be loaded or invoked.
	// Any pipeline call that needs embeddings fails with it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrInvalidArgument indicates bad call parameters, such as k <= 0,
	// mismatched parallel slices or a vector of the wrong dimensionality.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable indicates the vector store could not be opened, read or written.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)
