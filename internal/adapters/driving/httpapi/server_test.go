package httpapi

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

func testServerSettings() domain.ServerSettings {
	s := domain.DefaultSettings().Server
	s.Addr = "127.0.0.1:0"
	return s
}

func TestServer_RunAndShutdown(t *testing.T) {
	srv, err := NewServer(&Ports{
		Ingestion: &mockIngestionService{},
		Search:    &mockSearchService{},
		Chat:      &mockChatService{},
	}, testServerSettings())
	require.NoError(t, err)
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_ListenError(t *testing.T) {
	settings := testServerSettings()
	settings.Addr = "256.0.0.1:bad"
	srv, err := NewServer(&Ports{
		Ingestion: &mockIngestionService{},
		Search:    &mockSearchService{},
		Chat:      &mockChatService{},
	}, settings)
	require.NoError(t, err)

	assert.Error(t, srv.Run(context.Background()))
}

func TestNewServer_InvalidPorts(t *testing.T) {
	_, err := NewServer(&Ports{}, testServerSettings())
	assert.Error(t, err)
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:3000", displayAddr(":3000"))
	assert.Equal(t, "localhost:3000", displayAddr("[::]:3000"))
	assert.Equal(t, "127.0.0.1:8080", displayAddr("127.0.0.1:8080"))
	assert.Equal(t, "garbage", displayAddr("garbage"))
}
