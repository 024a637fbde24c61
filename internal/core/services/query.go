package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driving"
	"github.com/quilline-labs/quill-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.Answerer = (*QueryService)(nil)

// Retrieval parameters.
const (
	// DefaultTopK is how many chunks ground an answer.
	DefaultTopK = 4

	// DefaultSearchLimit applies when a caller passes a non-positive limit.
	DefaultSearchLimit = 10

	// MaxSearchLimit caps the standalone search API.
	MaxSearchLimit = 50

	// searchCacheTTL bounds how long memoised search results live.
	searchCacheTTL = 30 * time.Second
)

// QueryService answers questions over the indexed document set.
// It composes the retrieval pipeline and does not mask failures:
// apart from input validation, every error propagates verbatim.
type QueryService struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	// generator is optional - nil disables answering while search stays up.
	generator driven.GenerationService
	builder   *ContextBuilder
	cache     driven.Cache
	topK      int

	// systemPrompt overrides the generator's built-in default when
	// non-empty, typically loaded from the user's prompt files.
	systemPrompt string
}

// NewQueryService creates a query orchestrator.
// The generator and cache are optional (can be nil).
func NewQueryService(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	generator driven.GenerationService,
	builder *ContextBuilder,
) *QueryService {
	if builder == nil {
		builder = NewContextBuilder()
	}
	return &QueryService{
		index:     index,
		embedder:  embedder,
		generator: generator,
		builder:   builder,
		topK:      DefaultTopK,
	}
}

// SetCache sets the advisory search result cache.
func (s *QueryService) SetCache(cache driven.Cache) {
	s.cache = cache
}

// SetSystemPrompt overrides the generation system prompt.
func (s *QueryService) SetSystemPrompt(prompt string) {
	s.systemPrompt = prompt
}

// SetTopK overrides how many chunks ground an answer.
func (s *QueryService) SetTopK(k int) {
	if k > 0 {
		s.topK = k
	}
}

// Answer embeds the question, retrieves the most similar chunks,
// builds a bounded context and generates an answer with its sources.
func (s *QueryService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	return s.answer(ctx, question, nil)
}

// AnswerStream behaves like Answer but streams generated fragments
// through onToken before returning the assembled answer.
func (s *QueryService) AnswerStream(ctx context.Context, question string, onToken driven.TokenFunc) (*domain.Answer, error) {
	return s.answer(ctx, question, onToken)
}

func (s *QueryService) answer(ctx context.Context, question string, onToken driven.TokenFunc) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question: %w", domain.ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, fmt.Errorf("generation: %w", domain.ErrModelUnavailable)
	}

	logger.Section("Question Answering")
	logger.Debug("Question: %q", question)

	hits, err := s.retrieve(ctx, question, s.topK)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d hits", len(hits))

	contextText, used := s.builder.Build(hits)
	logger.Debug("Context: %d bytes from %d sources", len(contextText), len(used))

	var text string
	if onToken != nil {
		text, err = s.generator.CompleteStream(ctx, s.systemPrompt, question, contextText, driven.GenerateOptions{}, onToken)
	} else {
		text, err = s.generator.Complete(ctx, s.systemPrompt, question, contextText, driven.GenerateOptions{})
	}
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	logger.Info("Answered with %d sources", len(used))
	return &domain.Answer{Text: text, Sources: used}, nil
}

// Search performs semantic retrieval without generation.
func (s *QueryService) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query: %w", domain.ErrInvalidInput)
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	cacheKey := fmt.Sprintf("search:%d:%s", limit, query)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if hits, ok := cached.([]domain.SearchHit); ok {
				logger.Debug("Search cache hit: %q", query)
				return hits, nil
			}
		}
	}

	hits, err := s.retrieve(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, hits, searchCacheTTL)
	}

	return hits, nil
}

// retrieve embeds the text and runs a top-k index query.
// Queries count as first use, so the index initialises lazily here.
func (s *QueryService) retrieve(ctx context.Context, text string, k int) ([]domain.SearchHit, error) {
	if err := s.index.EnsureInitialized(ctx); err != nil {
		return nil, fmt.Errorf("ensure index: %w", err)
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	return hits, nil
}
