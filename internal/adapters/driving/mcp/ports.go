package mcp

import (
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides vector search over stored conditions.
	Search driving.SearchService

	// Chat answers questions grounded on stored conditions.
	Chat driving.ChatService

	// Corpus reports collection statistics.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Chat and Corpus are optional; their tools and resources degrade.
	return nil
}
