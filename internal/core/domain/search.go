package domain

// ItemMetadata is the fixed-shape metadata stored alongside each vector.
// The engine only ever reads these four fields, so they are a record
// rather than an open-ended map.
type ItemMetadata struct {
	// DocumentID is the parent document.
	DocumentID string

	// DocumentName is the parent document's display name, denormalised
	// here so hits can be rendered without a metadata lookup.
	DocumentName string

	// Content is the chunk text.
	Content string

	// ChunkIndex is the chunk's 0-based position within the document.
	ChunkIndex int
}

// IndexedItem is a (vector, metadata) pair owned by the vector index.
type IndexedItem struct {
	// ID is an opaque unique identifier assigned on insert.
	ID string

	// Vector is the unit-normalised embedding.
	Vector []float32

	// Metadata identifies the chunk this vector represents.
	Metadata ItemMetadata
}

// SearchHit is a scored retrieval result, produced fresh per query.
// Higher score means more similar; scores are cosine similarities
// in [-1, 1] since all vectors are unit-normalised.
type SearchHit struct {
	// DocumentID is the matched document.
	DocumentID string

	// DocumentName is the matched document's display name.
	DocumentName string

	// Content is the matched chunk text.
	Content string

	// ChunkIndex is the matched chunk's position within its document.
	ChunkIndex int

	// Score is the cosine similarity to the query vector.
	Score float64
}

// Answer is the result of answering a question: the generated text
// plus the retrieval hits that grounded it, highest-similarity first.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the hits used to build the generation context,
	// in rank order.
	Sources []SearchHit
}
