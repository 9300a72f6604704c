package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Flags(t *testing.T) {
	addr := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, "", addr.DefValue)

	skip := serveCmd.Flags().Lookup("skip-ping")
	require.NotNil(t, skip)
	assert.Equal(t, "false", skip.DefValue)
}

func TestServeCmd_RejectsArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "serve", "extra")
	assert.Error(t, err)
}

func TestServeCmd_LongListsRoutes(t *testing.T) {
	assert.Contains(t, serveCmd.Long, "/embeddings/diseases-symptoms")
	assert.Contains(t, serveCmd.Long, "/embeddings/vector-search")
	assert.Contains(t, serveCmd.Long, "/chatbot/chat")
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)
}
