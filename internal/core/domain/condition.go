package domain

import (
	"fmt"
	"time"
)

// Condition is a stored medical condition with its embedding.
// The ID and CreatedAt are assigned by the store on insert.
type Condition struct {
	ID          string
	Label       string
	Description string
	Vector      []float32
	CreatedAt   time.Time
}

// ConditionInput is one (label, description) pair submitted for ingestion.
type ConditionInput struct {
	Label       string
	Description string
}

// EmbeddingText returns the text embedded for this pair.
func (c ConditionInput) EmbeddingText() string {
	return fmt.Sprintf("Disease: %s. Symptoms: %s", c.Label, c.Description)
}

// ConditionMatch is a condition returned by a nearest-neighbour search.
type ConditionMatch struct {
	ID          string
	Label       string
	Description string

	// Score is the cosine similarity to the query vector, higher is closer.
	Score float64
}

// Embedding is a vector produced by an embedding provider.
type Embedding struct {
	Vector []float32

	// TokensUsed is the provider-reported token count, zero when unknown.
	TokensUsed int
}

// IngestResult summarises an ingestion request.
type IngestResult struct {
	Processed int
	Message   string

	// Skipped is true when the corpus was already populated.
	Skipped bool
}

// Ingestion result messages.
const (
	IngestSkippedMessage   = "Data already exists in the database. Processing skipped."
	IngestCompletedMessage = "Diseases and symptoms processed and saved successfully"
)

// ChatReply is the answer to a chat message.
type ChatReply struct {
	Response          string
	RelatedConditions []ConditionMatch
	Timestamp         time.Time
}

// CorpusStats describes the stored collection.
type CorpusStats struct {
	Count      int
	Dimensions int
	Store      string
}
