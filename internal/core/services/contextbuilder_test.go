package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

func hit(docName, content string, chunkIndex int, score float64) domain.SearchHit {
	return domain.SearchHit{
		DocumentID:   strings.ToLower(docName),
		DocumentName: docName,
		Content:      content,
		ChunkIndex:   chunkIndex,
		Score:        score,
	}
}

func TestContextBuilder_Build(t *testing.T) {
	b := NewContextBuilder()

	hits := []domain.SearchHit{
		hit("Guide.pdf", "Go is a compiled language.", 0, 0.92),
		hit("Notes.md", "Goroutines are lightweight.", 3, 0.85),
	}

	text, used := b.Build(hits)
	require.Len(t, used, 2)

	assert.Contains(t, text, "Source 1: Guide.pdf (chunk 1)")
	assert.Contains(t, text, "Go is a compiled language.")
	assert.Contains(t, text, "Source 2: Notes.md (chunk 4)")
	assert.Contains(t, text, "---")

	// Rank order preserved: source 1 appears before source 2.
	assert.Less(t, strings.Index(text, "Source 1"), strings.Index(text, "Source 2"))
}

func TestContextBuilder_BuildEmpty(t *testing.T) {
	b := NewContextBuilder()

	text, used := b.Build(nil)
	assert.Empty(t, text)
	assert.Empty(t, used)
}

func TestContextBuilder_BudgetDropsLowestRanked(t *testing.T) {
	// Budget fits two blocks but not three; the third (lowest-ranked)
	// is dropped whole rather than truncated.
	long := strings.Repeat("word ", 40)
	hits := []domain.SearchHit{
		hit("A.txt", long, 0, 0.9),
		hit("B.txt", long, 0, 0.8),
		hit("C.txt", long, 0, 0.7),
	}

	oneBlock := len(fmt.Sprintf("Source 1: A.txt (chunk 1)\n%s", long))
	b := NewContextBuilder(WithContextBudget(oneBlock*2 + 20))

	text, used := b.Build(hits)
	require.Len(t, used, 2)
	assert.Equal(t, "A.txt", used[0].DocumentName)
	assert.Equal(t, "B.txt", used[1].DocumentName)
	assert.NotContains(t, text, "C.txt")

	// No block was cut: the full content of every kept hit is present.
	assert.Equal(t, 2, strings.Count(text, long[:len(long)-1]))
}

func TestContextBuilder_OversizedTopHitKept(t *testing.T) {
	b := NewContextBuilder(WithContextBudget(10))

	text, used := b.Build([]domain.SearchHit{
		hit("Big.txt", strings.Repeat("x", 100), 0, 0.9),
	})

	require.Len(t, used, 1)
	assert.Contains(t, text, strings.Repeat("x", 100))
}
