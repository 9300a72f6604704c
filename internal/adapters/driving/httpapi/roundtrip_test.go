package httpapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medagent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/services"
)

// newLiveFixture wires the real services to a memory store and
// deterministic providers.
func newLiveFixture(t *testing.T) (*fixture, *hashEmbedder, *echoLLM) {
	t.Helper()
	embedder := &hashEmbedder{}
	llm := &echoLLM{}
	store := memory.NewConditionStore(embedder.Dimensions())

	search := services.NewSearchService(embedder, store, 100)
	ports := &Ports{
		Ingestion: services.NewIngestionService(embedder, store, 2),
		Search:    search,
		Chat:      services.NewChatService(search, llm, domain.DefaultSettings().Chat),
		Corpus:    services.NewCorpusService(store, embedder.Dimensions(), domain.StoreDriverMemory),
	}
	h, err := NewHandler(ports)
	require.NoError(t, err)
	return &fixture{handler: h}, embedder, llm
}

func TestRoundTrip_IngestThenSearchAndChat(t *testing.T) {
	f, embedder, llm := newLiveFixture(t)

	rec := f.do(http.MethodPost, "/embeddings/diseases-symptoms", `[
		{"disease":"Diabetes","symptom":"Frequent urination, excessive thirst"},
		{"disease":"Hypertension","symptom":"Headaches, shortness of breath"},
		{"disease":"Asthma","symptom":"Wheezing, chest tightness"}
	]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Diseases and symptoms processed and saved successfully","processed":3}`, rec.Body.String())
	assert.Equal(t, int32(3), embedder.calls.Load())

	// Searching with the exact embedded text returns that record first.
	rec = f.do(http.MethodGet,
		"/embeddings/vector-search?q=Disease:+Hypertension.+Symptoms:+Headaches,+shortness+of+breath&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	hits := decode[[]map[string]string](t, rec)
	require.Len(t, hits, 2)
	assert.Equal(t, "Hypertension", hits[0]["disease"])
	assert.Equal(t, "Headaches, shortness of breath", hits[0]["symptom"])
	assert.NotEmpty(t, hits[0]["_id"])

	rec = f.do(http.MethodPost, "/chatbot/chat", `{"message":"Disease: Asthma. Symptoms: Wheezing, chest tightness"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	reply := decode[map[string]any](t, rec)
	assert.Equal(t, "Consult a physician.", reply["response"])
	related, ok := reply["relatedConditions"].([]any)
	require.True(t, ok)
	require.Len(t, related, 3)
	assert.Equal(t, map[string]any{"disease": "Asthma", "symptom": "Wheezing, chest tightness"}, related[0])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, reply["timestamp"])
	assert.Equal(t, int32(1), llm.calls.Load())

	rec = f.do(http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok","conditions":3}`, rec.Body.String())
}

func TestRoundTrip_SecondIngestIsSkipped(t *testing.T) {
	f, embedder, _ := newLiveFixture(t)
	body := `[{"disease":"Flu","symptom":"Fever"}]`

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/embeddings/diseases-symptoms", body).Code)
	rec := f.do(http.MethodPost, "/embeddings/diseases-symptoms", `[{"disease":"Cold","symptom":"Sneezing"}]`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Data already exists in the database. Processing skipped.","processed":0}`, rec.Body.String())
	assert.Equal(t, int32(1), embedder.calls.Load(), "the skipped batch is never embedded")

	rec = f.do(http.MethodGet, "/embeddings/vector-search?q=Sneezing", "")
	hits := decode[[]map[string]string](t, rec)
	require.Len(t, hits, 1)
	assert.Equal(t, "Flu", hits[0]["disease"])
}

func TestRoundTrip_OverlongMessageMakesNoProviderCalls(t *testing.T) {
	f, embedder, llm := newLiveFixture(t)

	rec := f.do(http.MethodPost, "/chatbot/chat", `{"message":"`+strings.Repeat("x", 1001)+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, embedder.calls.Load())
	assert.Zero(t, llm.calls.Load())
}

func TestRoundTrip_ChatOnEmptyCorpus(t *testing.T) {
	f, _, _ := newLiveFixture(t)

	rec := f.do(http.MethodPost, "/chatbot/chat", `{"message":"I feel dizzy"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	reply := decode[map[string]any](t, rec)
	assert.Equal(t, []any{}, reply["relatedConditions"])
}
