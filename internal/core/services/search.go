package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
	"github.com/custodia-labs/medagent/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService embeds a query and returns the nearest stored conditions.
type SearchService struct {
	embedder      driven.EmbeddingService
	store         driven.ConditionStore
	candidatePool int
}

// NewSearchService creates a new search service. candidatePool is passed
// to the store for approximate indexes.
func NewSearchService(embedder driven.EmbeddingService, store driven.ConditionStore, candidatePool int) *SearchService {
	return &SearchService{
		embedder:      embedder,
		store:         store,
		candidatePool: candidatePool,
	}
}

// Search returns up to limit conditions ordered by similarity. The limit
// is normalised first, so out-of-range values fall back to the default.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.ConditionMatch, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}
	limit = domain.NormalizeSearchLimit(limit)

	matches, err := s.nearest(ctx, query, limit)
	if err != nil {
		logger.Error("Vector search failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}
	return matches, nil
}

// nearest is the shared embed-then-lookup step used by search and chat.
// Errors are returned unwrapped so each caller can apply its own wrapper.
func (s *SearchService) nearest(ctx context.Context, text string, k int) ([]domain.ConditionMatch, error) {
	logger.Debug("Finding top %d similar conditions", k)

	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	matches, err := s.store.NearestNeighbors(ctx, emb.Vector, k, max(s.candidatePool, k))
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []domain.ConditionMatch{}
	}
	return matches, nil
}
