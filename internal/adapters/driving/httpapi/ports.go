package httpapi

import (
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
)

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Ingestion driving.IngestionService
	Search    driving.SearchService
	Chat      driving.ChatService

	// Corpus is optional. When set, /health reports the stored count.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Ingestion == nil:
		return ErrMissingIngestionService
	case p.Search == nil:
		return ErrMissingSearchService
	case p.Chat == nil:
		return ErrMissingChatService
	}
	return nil
}
