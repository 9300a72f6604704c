package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

func notTerminal(t *testing.T) {
	t.Helper()
	old := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = old })
}

func TestChatCmd_OneShot(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "chat", "I have a fever")
	require.NoError(t, err)
	assert.Contains(t, out, "Rest and drink fluids.")
	assert.Contains(t, out, "Related conditions:")
	assert.Contains(t, out, "Influenza (0.93)")
	assert.Equal(t, "I have a fever", ts.chat.lastMsg)
}

func TestChatCmd_TooLong(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "chat", strings.Repeat("a", domain.MaxMessageLength+1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, ts.chat.calls)
}

func TestChatCmd_FromStdin(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	notTerminal(t)

	rootCmd.SetIn(strings.NewReader("headache and nausea\n"))
	defer rootCmd.SetIn(nil)
	require.NoError(t, runChat(rootCmd, nil))
	assert.Equal(t, "headache and nausea", ts.chat.lastMsg)
}

func TestChatCmd_EmptyStdin(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	notTerminal(t)

	_, err := execute(t, "chat")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, ts.chat.calls)
}

func TestChatCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.err = errors.New("llm down")

	_, err := execute(t, "chat", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat failed")
}

func TestChatCmd_TooManyArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "chat", "a", "b")
	assert.Error(t, err)
}
