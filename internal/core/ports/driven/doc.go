// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - VectorIndex: Persistent nearest-neighbour storage and search
//   - EmbeddingService: Maps text to unit-normalised vectors
//   - DocumentStore: Document and chunk metadata persistence
//   - Extractor / ExtractorRegistry: Per-format plain-text extraction
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - GenerationService: Local LLM completion. Without it, answering is
//     disabled but document management and semantic search remain usable.
//   - Cache: Advisory result memoisation. The engine is correct with
//     caching disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
