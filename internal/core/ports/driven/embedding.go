package driven

import (
	"context"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations make exactly one outbound call per Embed and never cache
// or retry. Any failure, including an empty vector, is reported as an error
// wrapping domain.ErrEmbeddingUnavailable.
//
// Implementations include:
//   - OpenAI (text-embedding-ada-002, text-embedding-3-small)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) (domain.Embedding, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// This is determined by the model and must match the ConditionStore.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
