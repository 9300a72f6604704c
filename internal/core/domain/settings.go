package domain

import (
	"errors"
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// StoreDriver identifies the condition store backend.
type StoreDriver string

// Available store drivers.
const (
	// StoreDriverSQLite is an embedded SQLite database with exact cosine search.
	StoreDriverSQLite StoreDriver = "sqlite"

	// StoreDriverPostgres is PostgreSQL with the pgvector extension.
	StoreDriverPostgres StoreDriver = "postgres"

	// StoreDriverMemory keeps conditions in process memory.
	StoreDriverMemory StoreDriver = "memory"
)

// IsValid returns true if the driver is recognised.
func (d StoreDriver) IsValid() bool {
	switch d {
	case StoreDriverSQLite, StoreDriverPostgres, StoreDriverMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d StoreDriver) String() string {
	return string(d)
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string

	// ReadTimeout bounds reading a request including its body.
	ReadTimeout time.Duration

	// WriteTimeout bounds a whole request, provider calls included.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// StoreSettings configures the condition store.
type StoreSettings struct {
	Driver StoreDriver

	// DataDir holds the SQLite database file.
	DataDir string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// CandidatePool is how many candidates approximate search considers
	// before narrowing to the requested K.
	CandidatePool int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (empty means the provider default).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's default vector size.
	Dimensions int

	// Concurrency bounds parallel embedding calls during ingestion.
	// Zero starts one call per record.
	Concurrency int

	// RequestsPerSecond paces provider calls. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the number of calls allowed above the steady rate.
	Burst int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (empty means the provider default).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// RequestsPerSecond paces completion calls. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the number of calls allowed above the steady rate.
	Burst int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChatSettings tunes the retrieval-augmented chat flow.
type ChatSettings struct {
	// TopK is how many conditions are retrieved as context.
	TopK int

	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64
}

// Settings holds all process settings. It is built once at startup
// and passed to constructors, never mutated afterwards.
type Settings struct {
	Server    ServerSettings
	Store     StoreSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chat      ChatSettings
}

// DefaultSettings returns settings with sensible defaults.
// API keys are left empty and must come from the config file or environment.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:            ":3000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    3 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreSettings{
			Driver:        StoreDriverSQLite,
			CandidatePool: 100,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Chat: ChatSettings{
			TopK:        3,
			MaxTokens:   500,
			Temperature: 0.7,
		},
	}
}

// Validate reports every setting that would prevent the process from starting.
func (s Settings) Validate() error {
	var errs []error
	if s.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if !s.Store.Driver.IsValid() {
		errs = append(errs, fmt.Errorf("store.driver %q is not one of sqlite, postgres, memory", s.Store.Driver))
	}
	if s.Store.Driver == StoreDriverPostgres && s.Store.DatabaseURL == "" {
		errs = append(errs, errors.New("store.database_url is required for the postgres driver"))
	}
	if s.Store.CandidatePool <= 0 {
		errs = append(errs, errors.New("store.candidate_pool must be positive"))
	}
	switch {
	case s.Embedding.Provider == AIProviderAnthropic:
		errs = append(errs, errors.New("embedding provider anthropic does not support embeddings"))
	case !s.Embedding.IsConfigured():
		errs = append(errs, fmt.Errorf("embedding provider %q is not configured", s.Embedding.Provider))
	}
	if !s.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("llm provider %q is not configured", s.LLM.Provider))
	}
	if s.Embedding.Concurrency < 0 {
		errs = append(errs, errors.New("embedding.concurrency must not be negative"))
	}
	if s.Chat.TopK <= 0 {
		errs = append(errs, errors.New("chat.top_k must be positive"))
	}
	if s.Chat.MaxTokens <= 0 {
		errs = append(errs, errors.New("chat.max_tokens must be positive"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-ada-002",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-3.5-turbo",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
