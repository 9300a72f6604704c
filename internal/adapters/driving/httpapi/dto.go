package httpapi

import (
	"github.com/custodia-labs/medagent/internal/core/domain"
)

// timestampLayout renders ISO-8601 with millisecond precision, e.g.
// 2024-01-15T10:30:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type ingestResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}

type conditionResponse struct {
	Disease string `json:"disease"`
	Symptom string `json:"symptom"`
}

type searchHitResponse struct {
	Disease string `json:"disease"`
	Symptom string `json:"symptom"`
	ID      string `json:"_id"`
}

type chatResponse struct {
	Response          string              `json:"response"`
	RelatedConditions []conditionResponse `json:"relatedConditions"`
	Timestamp         string              `json:"timestamp"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Conditions *int   `json:"conditions,omitempty"`
}

// errorResponse mirrors the error body clients of this API already parse.
// Message is a list for validation failures and a string otherwise.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error,omitempty"`
}

func toIngestResponse(r domain.IngestResult) ingestResponse {
	return ingestResponse{Message: r.Message, Processed: r.Processed}
}

func toSearchHits(matches []domain.ConditionMatch) []searchHitResponse {
	hits := make([]searchHitResponse, len(matches))
	for i, m := range matches {
		hits[i] = searchHitResponse{Disease: m.Label, Symptom: m.Description, ID: m.ID}
	}
	return hits
}

func toChatResponse(r domain.ChatReply) chatResponse {
	related := make([]conditionResponse, len(r.RelatedConditions))
	for i, m := range r.RelatedConditions {
		related[i] = conditionResponse{Disease: m.Label, Symptom: m.Description}
	}
	return chatResponse{
		Response:          r.Response,
		RelatedConditions: related,
		Timestamp:         r.Timestamp.UTC().Format(timestampLayout),
	}
}
