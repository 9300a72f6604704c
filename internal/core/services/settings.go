package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerAddr            = "server.addr"
	keyServerReadTimeout     = "server.read_timeout"
	keyServerWriteTimeout    = "server.write_timeout"
	keyServerShutdownTimeout = "server.shutdown_timeout"
	keyStoreDriver           = "store.driver"
	keyStoreDataDir          = "store.data_dir"
	keyStoreDatabaseURL      = "store.database_url"
	keyStoreCandidatePool    = "store.candidate_pool"
	keyEmbedProvider         = "embedding.provider"
	keyEmbedModel            = "embedding.model"
	keyEmbedBaseURL          = "embedding.base_url"
	keyEmbedAPIKey           = "embedding.api_key"
	keyEmbedDimensions       = "embedding.dimensions"
	keyEmbedConcurrency      = "embedding.concurrency"
	keyEmbedRPS              = "embedding.requests_per_second"
	keyEmbedBurst            = "embedding.burst"
	keyLLMProvider           = "llm.provider"
	keyLLMModel              = "llm.model"
	keyLLMBaseURL            = "llm.base_url"
	keyLLMAPIKey             = "llm.api_key"
	keyLLMRPS                = "llm.requests_per_second"
	keyLLMBurst              = "llm.burst"
	keyChatTopK              = "chat.top_k"
	keyChatMaxTokens         = "chat.max_tokens"
	keyChatTemperature       = "chat.temperature"
)

// providerKey returns a provider-wide key such as "openai.api_key",
// shared by the embedding and LLM sections.
func providerKey(p domain.AIProvider, name string) string {
	return p.String() + "." + name
}

// SettingsService builds process settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings. Unset keys take defaults.
// Unknown provider or driver names are kept so Settings.Validate can
// report them.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	embedProvider := domain.AIProvider(s.getString(keyEmbedProvider, defaults.Embedding.Provider.String()))
	llmProvider := domain.AIProvider(s.getString(keyLLMProvider, defaults.LLM.Provider.String()))

	settings := &domain.Settings{
		Server: domain.ServerSettings{
			Addr:            s.getString(keyServerAddr, defaults.Server.Addr),
			ReadTimeout:     s.getDuration(keyServerReadTimeout, defaults.Server.ReadTimeout),
			WriteTimeout:    s.getDuration(keyServerWriteTimeout, defaults.Server.WriteTimeout),
			ShutdownTimeout: s.getDuration(keyServerShutdownTimeout, defaults.Server.ShutdownTimeout),
		},
		Store: domain.StoreSettings{
			Driver:        domain.StoreDriver(s.getString(keyStoreDriver, defaults.Store.Driver.String())),
			DataDir:       s.configStore.GetString(keyStoreDataDir), // Empty means ~/.medagent/data
			DatabaseURL:   s.configStore.GetString(keyStoreDatabaseURL),
			CandidatePool: s.getInt(keyStoreCandidatePool, defaults.Store.CandidatePool),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          embedProvider,
			Model:             s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:           s.getString(keyEmbedBaseURL, s.configStore.GetString(providerKey(embedProvider, "base_url"))),
			APIKey:            s.getString(keyEmbedAPIKey, s.configStore.GetString(providerKey(embedProvider, "api_key"))),
			Dimensions:        s.configStore.GetInt(keyEmbedDimensions),
			Concurrency:       s.configStore.GetInt(keyEmbedConcurrency),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
			Burst:             s.configStore.GetInt(keyEmbedBurst),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:  s.getString(keyLLMBaseURL, s.configStore.GetString(providerKey(llmProvider, "base_url"))),
			APIKey:   s.getString(keyLLMAPIKey, s.configStore.GetString(providerKey(llmProvider, "api_key"))),

			RequestsPerSecond: s.configStore.GetFloat(keyLLMRPS),
			Burst:             s.configStore.GetInt(keyLLMBurst),
		},
		Chat: domain.ChatSettings{
			TopK:        s.getInt(keyChatTopK, defaults.Chat.TopK),
			MaxTokens:   s.getInt(keyChatMaxTokens, defaults.Chat.MaxTokens),
			Temperature: s.getFloat(keyChatTemperature, defaults.Chat.Temperature),
		},
	}

	return settings, nil
}

// Save persists application settings. Empty API keys are not written so
// keys supplied through the environment never land in the file.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyServerAddr, settings.Server.Addr},
		{keyServerReadTimeout, settings.Server.ReadTimeout.String()},
		{keyServerWriteTimeout, settings.Server.WriteTimeout.String()},
		{keyServerShutdownTimeout, settings.Server.ShutdownTimeout.String()},
		{keyStoreDriver, settings.Store.Driver.String()},
		{keyStoreDataDir, settings.Store.DataDir},
		{keyStoreCandidatePool, settings.Store.CandidatePool},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedConcurrency, settings.Embedding.Concurrency},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyEmbedBurst, settings.Embedding.Burst},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMRPS, settings.LLM.RequestsPerSecond},
		{keyLLMBurst, settings.LLM.Burst},
		{keyChatTopK, settings.Chat.TopK},
		{keyChatMaxTokens, settings.Chat.MaxTokens},
		{keyChatTemperature, settings.Chat.Temperature},
	}
	if settings.Embedding.Dimensions > 0 {
		values = append(values, struct {
			key   string
			value any
		}{keyEmbedDimensions, settings.Embedding.Dimensions})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := map[string]string{
		keyStoreDatabaseURL: settings.Store.DatabaseURL,
		keyEmbedAPIKey:      settings.Embedding.APIKey,
		keyLLMAPIKey:        settings.LLM.APIKey,
	}
	for key, value := range secrets {
		if value == "" {
			continue
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
