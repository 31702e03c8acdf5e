package domain

// IngestResult reports what one ingestion call produced.
type IngestResult struct {
	// ChunksCreated is the number of chunks embedded and upserted.
	ChunksCreated int `json:"chunks_created"`

	// TotalCharacters is the number of characters of extracted text.
	TotalCharacters int `json:"total_characters"`
}

// Add accumulates another result into r.
func (r *IngestResult) Add(other IngestResult) {
	r.ChunksCreated += other.ChunksCreated
	r.TotalCharacters += other.TotalCharacters
}
