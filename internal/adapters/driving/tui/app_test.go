package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medagent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medagent/internal/core/domain"
)

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.NotNil(t, app.ChatView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingChatService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})
	require.NoError(t, err)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, "value", app.Context().Value(contextKey("key")))
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
	assert.Contains(t, app.View(), "medagent")
}

func TestApp_LoadStats(t *testing.T) {
	t.Run("without corpus", func(t *testing.T) {
		app, err := NewApp(&Ports{Chat: &MockChatService{}})
		require.NoError(t, err)
		assert.Nil(t, app.loadStats())
	})

	t.Run("with corpus", func(t *testing.T) {
		corpus := &MockCorpusService{Result: domain.CorpusStats{Count: 7, Store: "sqlite"}}
		app, err := NewApp(&Ports{Chat: &MockChatService{}, Corpus: corpus})
		require.NoError(t, err)

		cmd := app.loadStats()
		require.NotNil(t, cmd)
		msg, ok := cmd().(messages.StatsLoaded)
		require.True(t, ok)
		assert.Equal(t, 7, msg.Stats.Count)
	})

	t.Run("stats error", func(t *testing.T) {
		corpus := &MockCorpusService{Err: errors.New("db closed")}
		app, err := NewApp(&Ports{Chat: &MockChatService{}, Corpus: corpus})
		require.NoError(t, err)

		msg := app.loadStats()().(messages.StatsLoaded)
		assert.Error(t, msg.Err)
	})
}

func TestApp_ForwardsChatCompleted(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})
	require.NoError(t, err)
	app.SetDimensions(120, 40)

	app.Update(messages.ChatCompleted{Reply: domain.ChatReply{Response: "Drink water."}})
	assert.Equal(t, 1, app.ChatView().TranscriptLen())
	assert.Contains(t, app.View(), "Drink water.")
}

func TestApp_Init(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})
	require.NoError(t, err)

	assert.NotNil(t, app.Init())
}
