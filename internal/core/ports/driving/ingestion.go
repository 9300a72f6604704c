package driving

import (
	"context"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

// IngestionService populates the condition corpus.
type IngestionService interface {
	// Ingest embeds and stores the batch when the corpus is empty.
	// A populated corpus yields a skipped result, not an error.
	Ingest(ctx context.Context, inputs []domain.ConditionInput) (domain.IngestResult, error)
}
