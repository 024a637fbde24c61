package driven

import "context"

// TokenFunc receives one incrementally generated text fragment.
// Fragments arrive in generation order.
type TokenFunc func(token string)

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// GenerationService wraps a local causal language model.
// This is an optional service - when nil, question answering is disabled
// but document management and semantic search remain usable.
//
// Implementations serialise concurrent calls: one in-flight generation
// at a time is the safe default because the underlying model context is
// not assumed reentrant. Per-call resources are released before the
// method returns, on every path.
type GenerationService interface {
	// Complete produces an answer from a system prompt, a question and
	// an optional retrieval context. When context is non-empty the
	// prompt instructs the model to ground its answer in it; otherwise
	// the question is sent directly.
	Complete(ctx context.Context, systemPrompt, question, contextText string, opts GenerateOptions) (string, error)

	// CompleteStream behaves like Complete but invokes onToken once per
	// generated fragment before returning the fully assembled answer.
	CompleteStream(ctx context.Context, systemPrompt, question, contextText string, opts GenerateOptions, onToken TokenFunc) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the model server is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
