package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves the embeddings endpoint, answering each input with a fixed
// vector and exercising the index-based ordering path by responding in
// reverse order.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}

		var req openai.EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		inputs, ok := req.Input.([]any)
		require.True(t, ok, "batch input is a JSON array")

		resp := openai.EmbeddingResponse{Model: req.Model}
		for i := len(inputs) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, openai.Embedding{
				Index:     i,
				Embedding: []float32{float32(i), float32(i) + 0.5},
			})
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestService(t *testing.T, baseURL string) *EmbeddingService {
	t.Helper()
	svc, err := NewEmbeddingService(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingServiceRequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingServiceDefaults(t *testing.T) {
	svc := newTestService(t, "")

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
}

func TestNewEmbeddingServiceKnownModelDimensions(t *testing.T) {
	svc, err := NewEmbeddingService(Config{
		APIKey: "test-key",
		Model:  string(openai.LargeEmbedding3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3072, svc.Dimensions())
}

func TestEmbedBatchOrdersByIndex(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	// The server answers in reverse; results still line up with the input.
	assert.Equal(t, []float32{0, 0.5}, vecs[0])
	assert.Equal(t, []float32{1, 1.5}, vecs[1])
	assert.Equal(t, []float32{2, 2.5}, vecs[2])
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	svc := newTestService(t, "")

	vecs, err := svc.EmbedBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedReturnsSingleVector(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	vec, err := svc.Embed(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5}, vec)
}

func TestEmbedBatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	_, err := svc.EmbedBatch(context.Background(), []string{"a"})
	assert.Error(t, err)
}
