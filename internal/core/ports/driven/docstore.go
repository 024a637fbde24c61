package driven

import (
	"context"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

// DocumentStore persists document records and chunk offset metadata.
// Backed by SQLite.
//
// The store records lifecycle state, not index contents: the vector
// index owns vectors, the store owns bookkeeping. On deletion the
// caller must purge the vector index before (or concurrently with)
// deleting the document row, so a crash between the two steps leaves
// orphaned index items (dead weight) rather than a ghost citation.
type DocumentStore interface {
	// SaveDocument stores or updates a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SetStatus transitions a document's lifecycle state. The message
	// is recorded when status is StatusError, and chunkCount when
	// status is StatusIndexed.
	SetStatus(ctx context.Context, id string, status domain.DocumentStatus, message string, chunkCount int) error

	// SaveChunks stores chunk offset records for a document.
	SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunk records for a document, in index order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document record and its chunk records.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all document records, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
