package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find similar document chunks for"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Filename string  `json:"filename"`
	ChunkID  int     `json:"chunk_id"`
	Score    float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the document chunks most similar to a query",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	k := input.K
	if k == 0 {
		k = domain.DefaultSearchLimit
	}

	results, err := s.ports.Search.Search(ctx, input.Query, k)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, toSearchOutput(results), nil
}

func toSearchOutput(results []domain.SearchResult) SearchOutput {
	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ID:       results[i].ID,
			Text:     results[i].Text,
			Filename: results[i].Metadata.Filename,
			ChunkID:  results[i].Metadata.ChunkID,
			Score:    results[i].Score,
		}
	}
	return output
}
