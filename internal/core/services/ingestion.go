package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
	"github.com/custodia-labs/medagent/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService embeds condition pairs and seeds the store once.
type IngestionService struct {
	embedder    driven.EmbeddingService
	store       driven.ConditionStore
	concurrency int
}

// NewIngestionService creates a new ingestion service. Concurrency bounds
// parallel embedding calls; zero embeds every pair at once.
func NewIngestionService(embedder driven.EmbeddingService, store driven.ConditionStore, concurrency int) *IngestionService {
	return &IngestionService{
		embedder:    embedder,
		store:       store,
		concurrency: concurrency,
	}
}

// Ingest embeds and stores inputs when the store is empty. If the store
// already holds conditions nothing is embedded and a skipped result is
// returned. Any provider or store failure aborts the whole batch.
func (s *IngestionService) Ingest(ctx context.Context, inputs []domain.ConditionInput) (domain.IngestResult, error) {
	logger.Section("Processing diseases and symptoms")
	logger.Info("Received %d items to process", len(inputs))

	if len(inputs) == 0 {
		return domain.IngestResult{}, fmt.Errorf("%w: no conditions to ingest", domain.ErrInvalidInput)
	}

	existing, err := s.store.Count(ctx)
	if err != nil {
		logger.Error("Counting stored conditions: %v", err)
		return domain.IngestResult{}, fmt.Errorf("%w: %w", domain.ErrIngestionFailed, err)
	}
	if existing > 0 {
		logger.Info("Found %d existing conditions. Skipping processing.", existing)
		return skippedResult(), nil
	}

	conditions, err := mapConcurrent(ctx, inputs, s.concurrency,
		func(ctx context.Context, in domain.ConditionInput) (domain.Condition, error) {
			emb, err := s.embedder.Embed(ctx, in.EmbeddingText())
			if err != nil {
				return domain.Condition{}, fmt.Errorf("embedding %q: %w", in.Label, err)
			}
			return domain.Condition{Label: in.Label, Description: in.Description, Vector: emb.Vector}, nil
		})
	if err != nil {
		logger.Error("Creating embeddings: %v", err)
		return domain.IngestResult{}, fmt.Errorf("%w: %w", domain.ErrIngestionFailed, err)
	}

	logger.Info("Saving %d embeddings", len(conditions))
	if seeder, ok := s.store.(driven.SeedingStore); ok {
		err = seeder.InsertManyIfEmpty(ctx, conditions)
	} else {
		err = s.store.InsertMany(ctx, conditions)
	}
	if errors.Is(err, domain.ErrAlreadyPopulated) {
		logger.Warn("Another ingestion populated the store first. Discarding %d embeddings.", len(conditions))
		return skippedResult(), nil
	}
	if err != nil {
		logger.Error("Saving embeddings: %v", err)
		return domain.IngestResult{}, fmt.Errorf("%w: %w", domain.ErrIngestionFailed, err)
	}

	logger.Info("Processing completed: %d conditions saved", len(conditions))
	return domain.IngestResult{
		Processed: len(conditions),
		Message:   domain.IngestCompletedMessage,
	}, nil
}

func skippedResult() domain.IngestResult {
	return domain.IngestResult{
		Processed: 0,
		Message:   domain.IngestSkippedMessage,
		Skipped:   true,
	}
}
