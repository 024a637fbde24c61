package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("without context", func(t *testing.T) {
		assert.Equal(t, "What is Go?", BuildPrompt("What is Go?", ""))
	})

	t.Run("with context", func(t *testing.T) {
		prompt := BuildPrompt("What is Go?", "Source 1: spec.txt (chunk 1)\nGo is a language.")
		assert.Contains(t, prompt, "Use the following sources")
		assert.Contains(t, prompt, "Go is a language.")
		assert.Contains(t, prompt, "Question: What is Go?")
	})
}

func TestGenerationService_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.NotEmpty(t, req.System)

		_ = json.NewEncoder(w).Encode(generateResponse{Response: "A compiled language.", Done: true})
	}))
	defer srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL})
	defer svc.Close()

	answer, err := svc.Complete(context.Background(), "", "What is Go?", "", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A compiled language.", answer)
}

func TestGenerationService_CompleteStream(t *testing.T) {
	fragments := []string{"A ", "compiled ", "language."}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		for i, f := range fragments {
			line, _ := json.Marshal(generateResponse{Response: f, Done: i == len(fragments)-1})
			fmt.Fprintf(w, "%s\n", line)
		}
	}))
	defer srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL})
	defer svc.Close()

	var received []string
	answer, err := svc.CompleteStream(
		context.Background(), "", "What is Go?", "some context",
		driven.GenerateOptions{},
		func(token string) { received = append(received, token) },
	)
	require.NoError(t, err)

	assert.Equal(t, "A compiled language.", answer)
	assert.Equal(t, fragments, received)
	assert.Equal(t, answer, strings.Join(received, ""))
}

func TestGenerationService_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL})

	assert.ErrorIs(t, svc.Ping(context.Background()), domain.ErrModelUnavailable)

	_, err := svc.Complete(context.Background(), "", "q", "", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestGenerationService_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL})

	_, err := svc.Complete(context.Background(), "", "q", "", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
