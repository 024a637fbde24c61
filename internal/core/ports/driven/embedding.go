package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Vectors are unit-normalised before being returned, so the vector
// index can realise cosine similarity as a plain dot product.
//
// Note: This is separate from VectorIndex which stores and searches
// vectors. EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - Any local inference server exposing an embeddings endpoint
type EmbeddingService interface {
	// Embed generates a unit-normalised embedding for the given text.
	// Deterministic for a fixed model: same text, same vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. It may simply
	// iterate; no batching optimisation is required of implementations.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768).
	// This is determined by the model and must match the index contents.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the model server is reachable with a lightweight
	// request. Used at startup; failure surfaces ErrModelUnavailable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
