// Package ollama provides a generation service adapter using Ollama.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// DefaultSystemPrompt instructs the model to answer from the supplied
// sources and admit when they do not contain the answer.
const DefaultSystemPrompt = "You are a helpful assistant that answers questions " +
	"about the user's documents. Answer using only the provided sources. " +
	"If the sources do not contain the answer, say so."

// Config holds configuration for the Ollama generation service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the generation model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// GenerationService produces completions using Ollama.
//
// One generation runs at a time: the underlying model context is not
// assumed reentrant, so concurrent callers queue on a mutex. Response
// bodies are closed on every return path, streaming or not.
type GenerationService struct {
	client  *http.Client
	baseURL string
	model   string

	// inflight serialises generation calls.
	inflight sync.Mutex
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	System  string   `json:"system,omitempty"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is one Ollama /api/generate response object.
// Streaming responses are a sequence of these, one per line.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewGenerationService creates a new Ollama generation service.
func NewGenerationService(cfg Config) *GenerationService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &GenerationService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Complete produces an answer for the question, grounded in the
// retrieval context when one is given.
func (s *GenerationService) Complete(
	ctx context.Context, systemPrompt, question, contextText string, opts driven.GenerateOptions,
) (string, error) {
	s.inflight.Lock()
	defer s.inflight.Unlock()

	resp, err := s.send(ctx, systemPrompt, question, contextText, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return genResp.Response, nil
}

// CompleteStream produces an answer incrementally, invoking onToken
// for each generated fragment in order before returning the full text.
func (s *GenerationService) CompleteStream(
	ctx context.Context, systemPrompt, question, contextText string,
	opts driven.GenerateOptions, onToken driven.TokenFunc,
) (string, error) {
	s.inflight.Lock()
	defer s.inflight.Unlock()

	resp, err := s.send(ctx, systemPrompt, question, contextText, opts, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Ollama streams one JSON object per line.
	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk generateResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return "", fmt.Errorf("parse stream chunk: %w", err)
		}

		if chunk.Response != "" {
			if onToken != nil {
				onToken(chunk.Response)
			}
			full.WriteString(chunk.Response)
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read response stream: %w", err)
	}

	return full.String(), nil
}

// ModelName returns the name of the generation model being used.
func (s *GenerationService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable.
func (s *GenerationService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ollama API returned status %d", domain.ErrModelUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (s *GenerationService) Close() error {
	return nil
}

// send issues a generate request. The caller owns the response body.
func (s *GenerationService) send(
	ctx context.Context, systemPrompt, question, contextText string,
	opts driven.GenerateOptions, stream bool,
) (*http.Response, error) {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	reqBody := generateRequest{
		Model:  s.model,
		System: systemPrompt,
		Prompt: BuildPrompt(question, contextText),
		Stream: stream,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		reqBody.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// BuildPrompt assembles the user prompt. With a non-empty context the
// question is framed against the retrieved sources; without one the
// question goes through as-is.
func BuildPrompt(question, contextText string) string {
	if contextText == "" {
		return question
	}

	var b strings.Builder
	b.WriteString("Use the following sources to answer the question.\n\n")
	b.WriteString(contextText)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
