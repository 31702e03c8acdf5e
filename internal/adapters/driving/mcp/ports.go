package mcp

import (
	"github.com/custodia-labs/compass-embed/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search answers similarity queries.
	Search driving.SearchService

	// Stats describes the collection.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Stats == nil {
		return ErrMissingStatsService
	}
	return nil
}
