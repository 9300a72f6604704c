// Package httpapi exposes the medical assistant over a JSON HTTP API.
//
// Routes:
//
//	POST /embeddings/diseases-symptoms  seed the condition corpus
//	GET  /embeddings/vector-search      nearest conditions for ?q=
//	POST /chatbot/chat                  retrieval-augmented answer
//	GET  /health                        liveness
//
// Validation failures are answered with 400 before any service is called.
// Service failures are logged and answered with a generic 500 body.
package httpapi

import "errors"

// Errors returned when required ports are missing.
var (
	ErrMissingIngestionService = errors.New("httpapi: ingestion service is required")
	ErrMissingSearchService    = errors.New("httpapi: search service is required")
	ErrMissingChatService      = errors.New("httpapi: chat service is required")
)
