package driven

// ProgressReporter receives batch ingestion progress.
type ProgressReporter interface {
	// Start announces the number of documents in the batch.
	Start(total int)

	// Increment marks one document as done.
	Increment()

	// Finish ends reporting.
	Finish()
}
