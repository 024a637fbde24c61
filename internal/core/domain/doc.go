// Package domain defines the core business entities for Quill.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document and its indexing lifecycle
//   - Chunk: An overlapping segment of a document's extracted text
//   - IndexedItem: A (vector, metadata) pair owned by the vector index
//   - SearchHit: A scored retrieval result
//   - Answer: A generated answer with its ranked sources
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
