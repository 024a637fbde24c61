package driving

import (
	"context"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
)

// Answerer answers natural-language questions over the indexed
// document set and exposes retrieval without generation.
type Answerer interface {
	// Answer embeds the question, retrieves the top-k most similar
	// chunks, builds a bounded context and generates an answer.
	// Fails fast with domain.ErrInvalidInput on an empty question;
	// every other failure propagates verbatim.
	Answer(ctx context.Context, question string) (*domain.Answer, error)

	// AnswerStream behaves like Answer but delivers the generated text
	// incrementally through onToken before returning the full answer.
	AnswerStream(ctx context.Context, question string, onToken driven.TokenFunc) (*domain.Answer, error)

	// Search performs semantic retrieval without generation.
	// The limit is clamped to 50; non-positive limits default to 10.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)
}
