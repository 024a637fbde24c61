package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts listed in failTexts fail to embed; everything else returns a
// fixed unit vector.
type mockEmbeddingService struct {
	vector    []float32
	embedErr  error
	failTexts map[string]bool

	mu       sync.Mutex
	embedded []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failTexts[text] {
		return nil, domain.ErrModelUnavailable
	}
	m.mu.Lock()
	m.embedded = append(m.embedded, text)
	m.mu.Unlock()
	if m.vector != nil {
		return m.vector, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return 3 }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockVectorIndex implements driven.VectorIndex for testing. It keeps
// inserted items in memory and serves canned hits from Search.
type mockVectorIndex struct {
	hits      []domain.SearchHit
	initErr   error
	insertErr error
	searchErr error
	deleteErr error

	// failContents makes Insert fail for items whose metadata content
	// contains any of the listed substrings.
	failContents []string

	// calls records mutating operations, shared with mockDocumentStore
	// when a test needs cross-port ordering.
	calls *callLog

	mu    sync.Mutex
	items []domain.IndexedItem
}

func (m *mockVectorIndex) EnsureInitialized(_ context.Context) error { return m.initErr }

func (m *mockVectorIndex) IsInitialized() bool { return m.initErr == nil }

func (m *mockVectorIndex) Insert(_ context.Context, item domain.IndexedItem) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	for _, frag := range m.failContents {
		if strings.Contains(item.Metadata.Content, frag) {
			return "", domain.ErrStorageIO
		}
	}
	m.mu.Lock()
	m.items = append(m.items, item)
	m.mu.Unlock()
	return item.Metadata.DocumentID, nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.SearchHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) DeleteByDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.calls.record("index.DeleteByDocument " + documentID)
	m.mu.Lock()
	kept := m.items[:0]
	for _, item := range m.items {
		if item.Metadata.DocumentID != documentID {
			kept = append(kept, item)
		}
	}
	m.items = kept
	m.mu.Unlock()
	return nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}

func (m *mockVectorIndex) Close() error { return nil }

func (m *mockVectorIndex) inserted() []domain.IndexedItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.IndexedItem, len(m.items))
	copy(out, m.items)
	return out
}

// mockGenerationService implements driven.GenerationService for testing.
type mockGenerationService struct {
	answer      string
	completeErr error

	mu          sync.Mutex
	lastContext string
	lastPrompt  string
}

func (m *mockGenerationService) Complete(_ context.Context, _, question, contextText string, _ driven.GenerateOptions) (string, error) {
	if m.completeErr != nil {
		return "", m.completeErr
	}
	m.mu.Lock()
	m.lastPrompt = question
	m.lastContext = contextText
	m.mu.Unlock()
	return m.answer, nil
}

func (m *mockGenerationService) CompleteStream(ctx context.Context, systemPrompt, question, contextText string, opts driven.GenerateOptions, onToken driven.TokenFunc) (string, error) {
	text, err := m.Complete(ctx, systemPrompt, question, contextText, opts)
	if err != nil {
		return "", err
	}
	for _, word := range strings.SplitAfter(text, " ") {
		onToken(word)
	}
	return text, nil
}

func (m *mockGenerationService) ModelName() string            { return "mock-llm" }
func (m *mockGenerationService) Ping(_ context.Context) error { return nil }
func (m *mockGenerationService) Close() error                 { return nil }

// mockCache implements driven.Cache for testing. Entries never expire.
type mockCache struct {
	mu          sync.Mutex
	entries     map[string]any
	invalidated int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]any)}
}

func (c *mockCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mockCache) Set(key string, value any, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *mockCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
	c.invalidated++
}

// callLog records cross-port call ordering.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) record(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

// orderedDocStore wraps the in-memory store to record deletions in a
// shared call log.
type orderedDocStore struct {
	driven.DocumentStore
	calls *callLog
}

func (s *orderedDocStore) DeleteDocument(ctx context.Context, id string) error {
	s.calls.record("store.DeleteDocument " + id)
	return s.DocumentStore.DeleteDocument(ctx, id)
}
