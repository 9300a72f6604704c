package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medagent/internal/adapters/driving/httpapi"
)

var (
	serveAddr     string
	serveSkipPing bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API server.

Routes:
  POST /embeddings/diseases-symptoms   seed the condition store
  GET  /embeddings/vector-search?q=    search stored conditions
  POST /chatbot/chat                   ask a grounded medical question
  GET  /health                         liveness and corpus size

The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr and PORT)")
	serveCmd.Flags().BoolVar(&serveSkipPing, "skip-ping", false, "skip provider connectivity checks at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		settings.Server.Addr = serveAddr
	}

	if err := ensureServices(cmd.Context(), serveSkipPing); err != nil {
		return err
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Ingestion: ingestionService,
		Search:    searchService,
		Chat:      chatService,
		Corpus:    corpusService,
	}, settings.Server)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
