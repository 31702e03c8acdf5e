// Package mcp provides an MCP (Model Context Protocol) server adapter for compass-embed.
// It lets AI assistants run similarity search over the embedded document collection.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingStatsService is returned when the stats service is not provided.
var ErrMissingStatsService = errors.New("mcp: stats service is required")
