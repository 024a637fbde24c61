package driven

import (
	"context"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

// VectorIndex provides persistent nearest-neighbour storage and search
// over indexed items, local to the machine with no external service.
//
// Searches compute cosine similarity (a dot product, since all vectors
// are unit-normalised) against every stored vector: O(n*d) per query.
// That is acceptable for a single-user document set, and the interface
// does not preclude swapping in an approximate-NN structure later.
//
// Concurrency: mutation (insert/delete) takes a single writer at a
// time; searches run concurrently against a consistent snapshot and
// never observe a partially written item.
type VectorIndex interface {
	// EnsureInitialized creates the index storage on first use and
	// reuses existing storage on subsequent opens. Idempotent.
	EnsureInitialized(ctx context.Context) error

	// IsInitialized reports whether the index storage is ready.
	IsInitialized() bool

	// Insert appends an item and returns its assigned unique ID.
	// Never overwrites. Fails with domain.ErrIndexUninitialized before
	// initialisation and domain.ErrStorageIO on persistence failure.
	Insert(ctx context.Context, item domain.IndexedItem) (string, error)

	// Search returns up to k hits ordered by descending similarity to
	// the query vector. Ties break by insertion order, earlier first.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error)

	// DeleteByDocument removes every item whose metadata DocumentID
	// matches. Deleting a document with zero items is a no-op.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Count returns the number of stored items.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
