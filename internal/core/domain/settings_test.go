package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"anthropic is valid", AIProviderAnthropic, true},
		{"empty is invalid", AIProvider(""), false},
		{"unknown is invalid", AIProvider("cohere"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

func TestStoreDriver_IsValid(t *testing.T) {
	assert.True(t, StoreDriverSQLite.IsValid())
	assert.True(t, StoreDriverPostgres.IsValid())
	assert.True(t, StoreDriverMemory.IsValid())
	assert.False(t, StoreDriver("mongodb").IsValid())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.False(t, LLMSettings{}.IsConfigured())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, ":3000", s.Server.Addr)
	assert.Equal(t, StoreDriverSQLite, s.Store.Driver)
	assert.Equal(t, 100, s.Store.CandidatePool)
	assert.Equal(t, "text-embedding-ada-002", s.Embedding.Model)
	assert.Equal(t, "gpt-3.5-turbo", s.LLM.Model)
	assert.Equal(t, 3, s.Chat.TopK)
	assert.Equal(t, 500, s.Chat.MaxTokens)
	assert.InDelta(t, 0.7, s.Chat.Temperature, 1e-9)
}

func TestSettings_Validate(t *testing.T) {
	valid := DefaultSettings()
	valid.Embedding.APIKey = "sk-test"
	valid.LLM.APIKey = "sk-test"
	require.NoError(t, valid.Validate())

	t.Run("missing keys", func(t *testing.T) {
		err := DefaultSettings().Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), `embedding provider "openai" is not configured`)
		assert.Contains(t, err.Error(), `llm provider "openai" is not configured`)
	})

	t.Run("postgres without url", func(t *testing.T) {
		s := valid
		s.Store.Driver = StoreDriverPostgres
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.database_url")
	})

	t.Run("bad driver", func(t *testing.T) {
		s := valid
		s.Store.Driver = "mongodb"
		assert.Error(t, s.Validate())
	})

	t.Run("anthropic embeddings", func(t *testing.T) {
		s := valid
		s.Embedding.Provider = AIProviderAnthropic
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not support embeddings")
	})

	t.Run("negative concurrency", func(t *testing.T) {
		s := valid
		s.Embedding.Concurrency = -1
		assert.Error(t, s.Validate())
	})
}

func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	assert.Equal(t, 1536, dims["text-embedding-ada-002"])
	assert.Equal(t, 768, dims["nomic-embed-text"])
}
