package domain

// DefaultSearchLimit is the number of results driving adapters request
// when the caller does not specify k.
const DefaultSearchLimit = 5

// SearchResult represents a single search hit.
type SearchResult struct {
	// ID is the matched record's key.
	ID string `json:"id"`

	// Text is the matched chunk text.
	Text string `json:"text"`

	// Metadata identifies the source document and chunk.
	Metadata RecordMetadata `json:"metadata"`

	// Score is the similarity score, best first.
	Score float64 `json:"score"`
}
