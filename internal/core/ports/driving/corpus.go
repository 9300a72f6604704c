package driving

import (
	"context"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

// CorpusService reports on the stored collection.
type CorpusService interface {
	Stats(ctx context.Context) (domain.CorpusStats, error)
}
