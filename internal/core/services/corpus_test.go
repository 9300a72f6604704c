package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

func TestCorpusService_Stats_StatsStore(t *testing.T) {
	svc := NewCorpusService(seededStore(t), 1536, domain.StoreDriverSQLite)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.CorpusStats{Count: 3, Dimensions: 3, Store: "memory"}, stats)
}

func TestCorpusService_Stats_CountFallback(t *testing.T) {
	svc := NewCorpusService(&plainStore{count: 7}, 768, domain.StoreDriverPostgres)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.CorpusStats{Count: 7, Dimensions: 768, Store: "postgres"}, stats)
}

func TestCorpusService_Stats_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewCorpusService(&plainStore{countErr: boom}, 1, domain.StoreDriverMemory).Stats(context.Background())
	assert.ErrorIs(t, err, boom)
}
