package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the completion provider failed or is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding provider failed or is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the condition store could not be reached.
	ErrStoreUnavailable = errors.New("condition store unavailable")

	// ErrDimensionMismatch indicates a vector does not match the collection dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrAlreadyPopulated indicates the corpus already holds records.
	// Ingestion treats it as a skip, never as a failure.
	ErrAlreadyPopulated = errors.New("corpus already populated")

	// ErrProcessingFailed is the root of every error returned to callers
	// after a provider or store failure. Details stay in the logs.
	ErrProcessingFailed = errors.New("processing failed")
)

// Generic request errors. Each wraps ErrProcessingFailed.
var (
	ErrIngestionFailed = fmt.Errorf("failed to process diseases and symptoms: %w", ErrProcessingFailed)
	ErrSearchFailed    = fmt.Errorf("failed to perform vector search: %w", ErrProcessingFailed)
	ErrChatFailed      = fmt.Errorf("failed to process chat request: %w", ErrProcessingFailed)
)
