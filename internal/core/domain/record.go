package domain

// RecordMetadata is the metadata persisted with every record.
type RecordMetadata struct {
	// Filename is the source document's filename.
	Filename string `json:"filename"`

	// ChunkID is the chunk's index within its document.
	ChunkID int `json:"chunk_id"`
}

// Record is one entry of the persisted collection.
type Record struct {
	// ID is the collection-wide unique key. Upserting an existing ID replaces the record.
	ID string `json:"id"`

	// Vector is the embedding. All records of a collection share its length.
	Vector []float32 `json:"vector"`

	// Text is the chunk text.
	Text string `json:"text"`

	// Metadata identifies where the text came from.
	Metadata RecordMetadata `json:"metadata"`
}

// QueryHit is a nearest-neighbour match from the vector store.
type QueryHit struct {
	// ID is the matched record's key.
	ID string `json:"id"`

	// Text is the matched chunk text.
	Text string `json:"text"`

	// Metadata is the matched record's metadata.
	Metadata RecordMetadata `json:"metadata"`

	// Score is the cosine similarity to the query vector. Higher is closer.
	Score float64 `json:"score"`
}
