package domain

import "time"

// DocumentStatus tracks a document through the ingestion lifecycle.
type DocumentStatus string

// Document lifecycle states. A document record is created in
// StatusProcessing the moment it is accepted; the heavy work
// (chunk, embed, index) runs in the background and finishes in
// StatusIndexed or StatusError.
const (
	// StatusPending means the document is queued but not yet picked up.
	StatusPending DocumentStatus = "pending"

	// StatusProcessing means chunking/embedding/indexing is in flight.
	StatusProcessing DocumentStatus = "processing"

	// StatusIndexed means the document is fully searchable.
	StatusIndexed DocumentStatus = "indexed"

	// StatusError means ingestion failed; StatusMessage carries the reason.
	StatusError DocumentStatus = "error"
)

// Valid reports whether s is a known lifecycle state.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusIndexed, StatusError:
		return true
	}
	return false
}

// Terminal reports whether s is an end state of the lifecycle.
func (s DocumentStatus) Terminal() bool {
	return s == StatusIndexed || s == StatusError
}

// Document represents an ingested document with its indexing state.
// Documents are immutable once indexed; an update is modelled as
// delete followed by reinsert.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the human-readable document name (usually the file name).
	Name string

	// Status is the current ingestion lifecycle state.
	Status DocumentStatus

	// StatusMessage carries the failure reason when Status is StatusError.
	StatusMessage string

	// ChunkCount is the number of chunks successfully indexed.
	// Zero until ingestion completes.
	ChunkCount int

	// CreatedAt is when the document was accepted for ingestion.
	CreatedAt time.Time

	// UpdatedAt is when the document record last changed state.
	UpdatedAt time.Time
}

// Chunk is an overlapping segment of a document's extracted text.
// Chunks are immutable and owned by the document that produced them.
type Chunk struct {
	// Content is the chunk text (whitespace-normalised, words joined
	// by single spaces).
	Content string

	// Index is the 0-based position of this chunk within its document.
	Index int

	// StartChar and EndChar are byte offsets into the joined,
	// whitespace-normalised text stream of the document. They are
	// advisory, for citation and debugging; they do not reproduce
	// exact offsets into the original file.
	StartChar int
	EndChar   int
}
