package cli

import (
	"context"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driving"
)

// fakeAnswerer implements driving.Answerer with canned results.
type fakeAnswerer struct {
	answer    *domain.Answer
	hits      []domain.SearchHit
	answerErr error
	searchErr error

	lastQuestion string
	lastLimit    int
}

var _ driving.Answerer = (*fakeAnswerer)(nil)

func (f *fakeAnswerer) Answer(_ context.Context, question string) (*domain.Answer, error) {
	f.lastQuestion = question
	return f.answer, f.answerErr
}

func (f *fakeAnswerer) AnswerStream(_ context.Context, question string, onToken driven.TokenFunc) (*domain.Answer, error) {
	f.lastQuestion = question
	if f.answerErr != nil {
		return nil, f.answerErr
	}
	onToken(f.answer.Text)
	return f.answer, nil
}

func (f *fakeAnswerer) Search(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	f.lastQuestion = query
	f.lastLimit = limit
	return f.hits, f.searchErr
}

// fakeIngestor implements driving.Ingestor with canned results.
type fakeIngestor struct {
	id        string
	docs      []domain.Document
	status    *driving.IngestStatus
	ingestErr error
	deleteErr error

	deleted []string
}

var _ driving.Ingestor = (*fakeIngestor)(nil)

func (f *fakeIngestor) IngestFile(_ context.Context, _ string) (string, error) {
	return f.id, f.ingestErr
}

func (f *fakeIngestor) IngestText(_ context.Context, _, _ string) (string, error) {
	return f.id, f.ingestErr
}

func (f *fakeIngestor) Delete(_ context.Context, documentID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, documentID)
	return nil
}

func (f *fakeIngestor) Status(_ context.Context, _ string) (*driving.IngestStatus, error) {
	if f.status == nil {
		return nil, domain.ErrNotFound
	}
	return f.status, nil
}

func (f *fakeIngestor) List(_ context.Context) ([]domain.Document, error) {
	return f.docs, nil
}

func (f *fakeIngestor) Wait() {}

// setupTestServices installs fakes and returns them with a cleanup
// that restores the unconfigured state.
func setupTestServices() (*fakeIngestor, *fakeAnswerer, func()) {
	ing := &fakeIngestor{id: "doc-1"}
	ans := &fakeAnswerer{
		answer: &domain.Answer{Text: "a canned answer"},
		hits: []domain.SearchHit{
			{DocumentID: "doc-1", DocumentName: "guide.md", Content: "some indexed content", ChunkIndex: 0, Score: 0.9},
		},
	}
	Configure(Dependencies{Ingestor: ing, Answerer: ans})
	return ing, ans, func() {
		Configure(Dependencies{})
	}
}
