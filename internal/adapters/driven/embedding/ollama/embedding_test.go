package ollama

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

func newEmbedServer(t *testing.T, embedding []float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embeddings":
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.NotEmpty(t, req.Model)
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: embedding})
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestEmbeddingService_EmbedNormalises(t *testing.T) {
	srv := newEmbedServer(t, []float64{3, 4, 0})
	defer srv.Close()

	svc := NewEmbeddingService(Config{BaseURL: srv.URL, RequestsPerSecond: -1})
	defer svc.Close()

	vec, err := svc.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	require.Len(t, vec, 3)

	// 3-4-5 triangle: normalised to (0.6, 0.8, 0).
	assert.InDelta(t, 0.6, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vec[1]), 1e-6)

	var norm float64
	for _, f := range vec {
		norm += float64(f) * float64(f)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	srv := newEmbedServer(t, []float64{1, 0})
	defer srv.Close()

	svc := NewEmbeddingService(Config{BaseURL: srv.URL, RequestsPerSecond: -1})
	defer svc.Close()

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
}

func TestEmbeddingService_ServerDown(t *testing.T) {
	srv := newEmbedServer(t, nil)
	srv.Close() // immediately unreachable

	svc := NewEmbeddingService(Config{BaseURL: srv.URL, RequestsPerSecond: -1})

	err := svc.Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	_, err = svc.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}

func TestNormalise_ZeroVector(t *testing.T) {
	vec := normalise([]float64{0, 0, 0})
	for _, f := range vec {
		assert.Zero(t, f)
	}
}
