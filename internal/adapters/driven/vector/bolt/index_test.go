package bolt

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, idx.EnsureInitialized(context.Background()))
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

// unit returns a unit vector pointing along the given 3D direction.
func unit(x, y, z float32) []float32 {
	norm := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	return []float32{x / norm, y / norm, z / norm}
}

func item(docID, docName, content string, chunkIndex int, vec []float32) domain.IndexedItem {
	return domain.IndexedItem{
		Vector: vec,
		Metadata: domain.ItemMetadata{
			DocumentID:   docID,
			DocumentName: docName,
			Content:      content,
			ChunkIndex:   chunkIndex,
		},
	}
}

func TestIndex_UninitializedOperationsFail(t *testing.T) {
	idx := NewIndex(filepath.Join(t.TempDir(), "vectors.db"))
	ctx := context.Background()

	assert.False(t, idx.IsInitialized())

	_, err := idx.Insert(ctx, item("d", "d.txt", "x", 0, unit(1, 0, 0)))
	assert.ErrorIs(t, err, domain.ErrIndexUninitialized)

	_, err = idx.Search(ctx, unit(1, 0, 0), 3)
	assert.ErrorIs(t, err, domain.ErrIndexUninitialized)

	err = idx.DeleteByDocument(ctx, "d")
	assert.ErrorIs(t, err, domain.ErrIndexUninitialized)
}

func TestIndex_EnsureInitializedIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectors.db")

	idx := NewIndex(path)
	require.NoError(t, idx.EnsureInitialized(ctx))
	require.NoError(t, idx.EnsureInitialized(ctx))

	_, err := idx.Insert(ctx, item("a", "a.txt", "hello", 0, unit(1, 0, 0)))
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	// Reopening must reuse the existing storage, not recreate it.
	reopened := NewIndex(path)
	require.NoError(t, reopened.EnsureInitialized(ctx))
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndex_SearchRanking(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	// Three chunks from A along distinct directions, two from B.
	_, err := idx.Insert(ctx, item("A", "a.txt", "a0", 0, unit(1, 0, 0)))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("A", "a.txt", "a1", 1, unit(0.9, 0.1, 0)))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("A", "a.txt", "a2", 2, unit(0.7, 0.3, 0)))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("B", "b.txt", "b0", 0, unit(0, 1, 0)))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("B", "b.txt", "b1", 1, unit(0, 0.9, 0.1)))
	require.NoError(t, err)

	// Query near A's chunk 1: both results from A, chunk 1 first.
	hits, err := idx.Search(ctx, unit(0.9, 0.1, 0), 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "A", hits[0].DocumentID)
	assert.Equal(t, 1, hits[0].ChunkIndex)
	assert.Equal(t, "A", hits[1].DocumentID)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)

	for _, h := range hits {
		assert.LessOrEqual(t, h.Score, 1.0+1e-6)
		assert.GreaterOrEqual(t, h.Score, -1.0-1e-6)
	}
}

func TestIndex_SearchTieBreaksByInsertionOrder(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	// Identical vectors score identically; earlier insert wins.
	v := unit(1, 0, 0)
	_, err := idx.Insert(ctx, item("first", "f.txt", "f", 0, v))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("second", "s.txt", "s", 0, v))
	require.NoError(t, err)

	hits, err := idx.Search(ctx, v, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "first", hits[0].DocumentID)
	assert.Equal(t, "second", hits[1].DocumentID)
}

func TestIndex_SearchKLargerThanIndex(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	_, err := idx.Insert(ctx, item("A", "a.txt", "a0", 0, unit(1, 0, 0)))
	require.NoError(t, err)

	hits, err := idx.Search(ctx, unit(1, 0, 0), 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = idx.Search(ctx, unit(1, 0, 0), 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_DeleteByDocument(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	_, err := idx.Insert(ctx, item("A", "a.txt", "a0", 0, unit(1, 0, 0)))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("A", "a.txt", "a1", 1, unit(0.9, 0.1, 0)))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("A", "a.txt", "a2", 2, unit(0.7, 0.3, 0)))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("B", "b.txt", "b0", 0, unit(0, 1, 0)))
	require.NoError(t, err)
	_, err = idx.Insert(ctx, item("B", "b.txt", "b1", 1, unit(0, 0.9, 0.1)))
	require.NoError(t, err)

	query := unit(0, 1, 0)
	before, err := idx.Search(ctx, query, 5)
	require.NoError(t, err)

	require.NoError(t, idx.DeleteByDocument(ctx, "A"))

	after, err := idx.Search(ctx, query, 5)
	require.NoError(t, err)
	require.Len(t, after, 2)
	for _, h := range after {
		assert.Equal(t, "B", h.DocumentID)
	}

	// Survivors keep their scores on the same query.
	scores := make(map[string]float64)
	for _, h := range before {
		if h.DocumentID == "B" {
			scores[h.Content] = h.Score
		}
	}
	for _, h := range after {
		assert.InDelta(t, scores[h.Content], h.Score, 1e-9)
	}

	// Deleting an absent document is a no-op.
	require.NoError(t, idx.DeleteByDocument(ctx, "A"))
	require.NoError(t, idx.DeleteByDocument(ctx, "never-existed"))
}

func TestIndex_ConcurrentSearchDuringInsert(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	_, err := idx.Insert(ctx, item("seed", "seed.txt", "s", 0, unit(1, 0, 0)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := idx.Insert(ctx, item("bulk", "bulk.txt", "c", i, unit(0, 1, 0)))
			assert.NoError(t, err)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			hits, err := idx.Search(ctx, unit(1, 0, 0), 3)
			assert.NoError(t, err)
			// The seed item is always visible and complete.
			assert.NotEmpty(t, hits)
			assert.Equal(t, "seed", hits[0].DocumentID)
		}
	}()

	wg.Wait()

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 51, n)
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -0.5, 0.8125}
	got := dotBytes(vec, vectorToBytes(vec))

	var want float64
	for _, f := range vec {
		want += float64(f) * float64(f)
	}
	assert.InDelta(t, want, got, 1e-9)
}
