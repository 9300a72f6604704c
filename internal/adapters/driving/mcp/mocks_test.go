package mcp

import (
	"context"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.ConditionMatch
	err       error
	lastQuery string
	lastLimit int
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.ConditionMatch, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply   domain.ChatReply
	err     error
	calls   int
	lastMsg string
}

func (m *mockChatService) Chat(_ context.Context, message string) (domain.ChatReply, error) {
	m.calls++
	m.lastMsg = message
	return m.reply, m.err
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	stats domain.CorpusStats
	err   error
}

func (m *mockCorpusService) Stats(_ context.Context) (domain.CorpusStats, error) {
	return m.stats, m.err
}

// Verify interface compliance.
var (
	_ driving.SearchService = (*mockSearchService)(nil)
	_ driving.ChatService   = (*mockChatService)(nil)
	_ driving.CorpusService = (*mockCorpusService)(nil)
)
