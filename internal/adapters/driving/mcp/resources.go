package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for compass-embed resources.
	uriScheme = "compass://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the collection.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collection",
		Name:        "collection",
		Description: "Name, record count, vector size and embedding model of the collection",
		MIMEType:    "application/json",
	}, s.handleCollectionResource)

	// Template for canned searches.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "search/{query}",
		Name:        "search",
		Description: "The five chunks most similar to a URL-escaped query",
		MIMEType:    "application/json",
	}, s.handleSearchResource)
}

// handleCollectionResource returns the collection statistics.
func (s *Server) handleCollectionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Stats.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading collection stats: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

// handleSearchResource runs a default-sized search for the query in the URI.
func (s *Server) handleSearchResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract query from URI: compass://search/{query}
	query := extractQuery(req.Params.URI)
	if query == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	results, err := s.ports.Search.Search(ctx, query, domain.DefaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	data, err := json.MarshalIndent(toSearchOutput(results), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling results: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractQuery extracts the unescaped query from a URI like compass://search/{query}.
func extractQuery(uri string) string {
	const prefix = uriScheme + "search/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	query, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(query)
}
