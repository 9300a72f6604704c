package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
)

// MockChatService implements driving.ChatService for testing.
type MockChatService struct {
	ChatFunc func(ctx context.Context, message string) (domain.ChatReply, error)
}

func (m *MockChatService) Chat(ctx context.Context, message string) (domain.ChatReply, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, message)
	}
	return domain.ChatReply{}, nil
}

// MockCorpusService implements driving.CorpusService for testing.
type MockCorpusService struct {
	Result domain.CorpusStats
	Err    error
}

func (m *MockCorpusService) Stats(_ context.Context) (domain.CorpusStats, error) {
	return m.Result, m.Err
}

var (
	_ driving.ChatService   = (*MockChatService)(nil)
	_ driving.CorpusService = (*MockCorpusService)(nil)
)

func TestPorts_Validate(t *testing.T) {
	t.Run("missing chat", func(t *testing.T) {
		ports := &Ports{Corpus: &MockCorpusService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingChatService)
	})

	t.Run("chat only", func(t *testing.T) {
		ports := &Ports{Chat: &MockChatService{}}
		assert.NoError(t, ports.Validate())
	})
}
