package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrStoreUnavailable", ErrStoreUnavailable},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrAlreadyPopulated", ErrAlreadyPopulated},
		{"ErrProcessingFailed", ErrProcessingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestRequestErrors_WrapProcessingFailed tests the generic request errors
func TestRequestErrors_WrapProcessingFailed(t *testing.T) {
	for _, err := range []error{ErrIngestionFailed, ErrSearchFailed, ErrChatFailed} {
		assert.ErrorIs(t, err, ErrProcessingFailed)
	}
	assert.Equal(t, "failed to process chat request: processing failed", ErrChatFailed.Error())
	assert.False(t, errors.Is(ErrChatFailed, ErrSearchFailed))
}

// TestErrors_Wrapping tests that adapters can wrap sentinel errors with detail
func TestErrors_Wrapping(t *testing.T) {
	err := fmt.Errorf("%w: openai status 429", ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	assert.NotErrorIs(t, err, ErrLLMUnavailable)
}
