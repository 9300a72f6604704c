package driving

import (
	"context"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

// SearchService provides direct vector search to external actors.
type SearchService interface {
	// Search returns the conditions closest to query. The limit is
	// normalised with domain.NormalizeSearchLimit.
	Search(ctx context.Context, query string, limit int) ([]domain.ConditionMatch, error)
}
