// Package cli provides the medagent command-line interface built on cobra.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medagent/internal/adapters/driven/ai"
	"github.com/custodia-labs/medagent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/medagent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medagent/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/medagent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
	"github.com/custodia-labs/medagent/internal/core/services"
	"github.com/custodia-labs/medagent/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var (
	configPath string
	verbose    bool

	// configFile is the resolved config path, set by loadSettings.
	configFile string
)

// Services used by commands. Tests assign mocks directly; otherwise
// they are built on first use by ensureServices.
var (
	settingsService  driving.SettingsService
	ingestionService driving.IngestionService
	searchService    driving.SearchService
	chatService      driving.ChatService
	corpusService    driving.CorpusService
)

// closers release provider clients and the store on exit.
var closers []func()

var rootCmd = &cobra.Command{
	Use:   "medagent",
	Short: "Medical assistant API backed by retrieval-augmented generation",
	Long: `medagent stores disease/symptom pairs as embeddings and answers
medical questions grounded on the closest stored conditions.

Run 'medagent serve' to start the HTTP API, or use the search, chat and
ingest commands directly from the terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.medagent/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command and releases any services it opened.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// loadSettings reads .env, the config file and the environment once per process.
func loadSettings(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if settingsService != nil {
		return nil
	}

	if err := file.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := file.NewConfigStore(configPath, file.DefaultEnvBindings()...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configFile = cfg.Path()
	logger.Debug("Config file: %s", configFile)

	settingsService = services.NewSettingsService(cfg, ai.NewConfigValidator())
	return nil
}

// ensureServices builds providers, the store and the core services from
// settings. It is a no-op when every service is already set.
func ensureServices(ctx context.Context, skipPing bool) error {
	if ingestionService != nil && searchService != nil && chatService != nil {
		return nil
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	providers, err := ai.Init(settings, skipPing)
	if err != nil {
		return err
	}
	closers = append(closers, providers.Close)

	dims := providers.EmbeddingService.Dimensions()
	store, err := openStore(ctx, settings.Store, dims)
	if err != nil {
		return err
	}
	closers = append(closers, func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	})

	search := services.NewSearchService(providers.EmbeddingService, store, settings.Store.CandidatePool)
	searchService = search
	ingestionService = services.NewIngestionService(providers.EmbeddingService, store, settings.Embedding.Concurrency)
	chatService = services.NewChatService(search, providers.LLMService, settings.Chat)
	corpusService = services.NewCorpusService(store, dims, settings.Store.Driver)
	return nil
}

// openStore opens the condition store selected by settings.
func openStore(ctx context.Context, settings domain.StoreSettings, dims int) (driven.ConditionStore, error) {
	switch settings.Driver {
	case domain.StoreDriverSQLite:
		store, err := sqlite.NewStore(settings.DataDir, dims)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		logger.Info("Condition store: sqlite (%s)", store.Path())
		return store, nil
	case domain.StoreDriverPostgres:
		store, err := postgres.NewStore(ctx, settings.DatabaseURL, dims)
		if err != nil {
			return nil, err
		}
		logger.Info("Condition store: postgres")
		return store, nil
	case domain.StoreDriverMemory:
		logger.Warn("Condition store: memory, conditions are lost on exit")
		return memory.NewConditionStore(dims), nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", domain.ErrInvalidInput, settings.Driver)
	}
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}
