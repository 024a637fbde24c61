package driving

import (
	"context"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

// IngestStatus reports the progress of one document's ingestion.
type IngestStatus struct {
	// DocumentID identifies the document.
	DocumentID string

	// Status is the current lifecycle state.
	Status domain.DocumentStatus

	// ChunksIndexed is the number of chunks inserted so far.
	ChunksIndexed int

	// ChunksSkipped counts chunks dropped after embed/insert failures.
	ChunksSkipped int
}

// Ingestor accepts documents for background indexing and manages the
// indexed document set.
type Ingestor interface {
	// IngestFile accepts a file for ingestion: text is extracted
	// synchronously, a document record is created in processing state,
	// and chunking/embedding/indexing run in the background. Returns
	// the new document's ID.
	IngestFile(ctx context.Context, path string) (string, error)

	// IngestText accepts already-extracted text under the given name.
	IngestText(ctx context.Context, name, text string) (string, error)

	// Delete removes a document: its vectors first, then its metadata,
	// so a crash in between leaves dead index items rather than a
	// citation pointing at a missing document. Idempotent.
	Delete(ctx context.Context, documentID string) error

	// Status returns progress for a document, whether or not its
	// background work is still running.
	Status(ctx context.Context, documentID string) (*IngestStatus, error)

	// List returns all document records, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Wait blocks until all in-flight ingestion work completes.
	// Used by short-lived CLI commands and tests.
	Wait()
}
