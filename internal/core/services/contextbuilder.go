package services

import (
	"fmt"
	"strings"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

// DefaultContextBudget is the default context cap in bytes, roughly
// 2000 tokens, leaving headroom in a small local model's window.
const DefaultContextBudget = 8000

// blockDelimiter separates source blocks in the assembled context.
const blockDelimiter = "\n\n---\n\n"

// ContextBuilder formats retrieval hits into a bounded prompt context.
// Hits are emitted in the order given (the index already ranks them
// highest-similarity first); no re-ranking, no deduplication across
// overlapping chunks.
type ContextBuilder struct {
	budget int
}

// ContextOption configures the context builder.
type ContextOption func(*ContextBuilder)

// WithContextBudget sets the maximum context length in bytes.
// Non-positive values keep the default.
func WithContextBudget(budget int) ContextOption {
	return func(b *ContextBuilder) {
		if budget > 0 {
			b.budget = budget
		}
	}
}

// NewContextBuilder creates a context builder with the given options.
func NewContextBuilder(opts ...ContextOption) *ContextBuilder {
	b := &ContextBuilder{budget: DefaultContextBudget}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build concatenates hits into labeled source blocks. When the budget
// would be exceeded, whole lowest-ranked blocks are dropped; a block
// is never truncated mid-text. Returns the context and the hits that
// made it in (the provenance the answer should cite).
func (b *ContextBuilder) Build(hits []domain.SearchHit) (string, []domain.SearchHit) {
	if len(hits) == 0 {
		return "", nil
	}

	var sb strings.Builder
	var used []domain.SearchHit

	for i, hit := range hits {
		block := formatBlock(i+1, hit)

		cost := len(block)
		if sb.Len() > 0 {
			cost += len(blockDelimiter)
		}
		if sb.Len()+cost > b.budget && sb.Len() > 0 {
			break
		}
		// A single oversized top hit is kept: an empty context helps
		// nobody, and the generation side enforces its own window.

		if sb.Len() > 0 {
			sb.WriteString(blockDelimiter)
		}
		sb.WriteString(block)
		used = append(used, hit)
	}

	return sb.String(), used
}

// Budget returns the configured context cap in bytes.
func (b *ContextBuilder) Budget() int {
	return b.budget
}

// formatBlock renders one hit with its provenance marker.
// Chunk numbers are 1-based for human readers.
func formatBlock(n int, hit domain.SearchHit) string {
	return fmt.Sprintf("Source %d: %s (chunk %d)\n%s", n, hit.DocumentName, hit.ChunkIndex+1, hit.Content)
}
