package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/logger"
)

// maxBodyBytes bounds request bodies. Ingestion batches are the largest.
const maxBodyBytes = 8 << 20

type handler struct {
	ports *Ports
}

// NewHandler returns the routed API handler wrapped in the logging and
// recovery middleware.
func NewHandler(ports *Ports) (http.Handler, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	h := &handler{ports: ports}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /embeddings/diseases-symptoms", h.ingest)
	mux.HandleFunc("GET /embeddings/vector-search", h.search)
	mux.HandleFunc("POST /chatbot/chat", h.chat)
	mux.HandleFunc("GET /health", h.health)

	return recoverPanics(logRequests(mux)), nil
}

func (h *handler) ingest(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	inputs, verr := domain.ValidateConditionBatch(body)
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	result, err := h.ports.Ingestion.Ingest(r.Context(), inputs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toIngestResponse(result))
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if verr := domain.ValidateSearchQuery(q); verr != nil {
		writeBadRequest(w, verr.Messages[0])
		return
	}
	limit := domain.ParseSearchLimit(r.URL.Query().Get("limit"))

	matches, err := h.ports.Search.Search(r.Context(), q, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSearchHits(matches))
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	req, verr := domain.ValidateChatRequest(body)
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	reply, err := h.ports.Chat.Chat(r.Context(), req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatResponse(reply))
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.ports.Corpus != nil {
		stats, err := h.ports.Corpus.Stats(r.Context())
		if err != nil {
			logger.Error("health: reading corpus stats: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
		resp.Conditions = &stats.Count
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeBody reads a JSON body into generic values so validation can
// report type errors per field. It writes the 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var body any
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				StatusCode: http.StatusRequestEntityTooLarge,
				Message:    "request entity too large",
				Error:      "Payload Too Large",
			})
		case errors.Is(err, io.EOF):
			writeBadRequest(w, "request body is required")
		default:
			writeBadRequest(w, "invalid JSON body: "+err.Error())
		}
		return nil, false
	}
	if dec.More() {
		writeBadRequest(w, "invalid JSON body: unexpected data after top-level value")
		return nil, false
	}
	return body, true
}
