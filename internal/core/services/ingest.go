package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quilline-labs/quill-cli/internal/chunker"
	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driving"
	"github.com/quilline-labs/quill-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService coordinates document ingestion: extract, chunk, embed,
// index. A document record is durably in processing state the moment
// it is accepted; the heavy work runs in a supervised goroutine per
// document and finishes by transitioning the record to indexed or
// error, so failures are observable rather than silently lost.
type IngestService struct {
	docStore   driven.DocumentStore
	index      driven.VectorIndex
	embedder   driven.EmbeddingService
	extractors driven.ExtractorRegistry
	chunks     *chunker.Chunker
	cache      driven.Cache

	wg sync.WaitGroup

	// Live progress for in-flight documents.
	mu     sync.RWMutex
	active map[string]*driving.IngestStatus
}

// NewIngestService creates an ingestion orchestrator.
// The cache is optional (can be nil).
func NewIngestService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	extractors driven.ExtractorRegistry,
	chunks *chunker.Chunker,
	cache driven.Cache,
) *IngestService {
	return &IngestService{
		docStore:   docStore,
		index:      index,
		embedder:   embedder,
		extractors: extractors,
		chunks:     chunks,
		cache:      cache,
		active:     make(map[string]*driving.IngestStatus),
	}
}

// SetCache sets the advisory result cache invalidated on mutation.
func (s *IngestService) SetCache(cache driven.Cache) {
	s.cache = cache
}

// IngestFile extracts the file's text and accepts it for ingestion.
// Extraction I/O failures (missing file, unreadable) reject the call;
// content-level failures (no usable text) surface later as the
// document's error status.
func (s *IngestService) IngestFile(ctx context.Context, path string) (string, error) {
	if s.extractors == nil {
		return "", fmt.Errorf("ingest file: no extractor registry configured")
	}

	text, err := s.extractors.ExtractText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}

	return s.IngestText(ctx, filepath.Base(path), text)
}

// IngestText accepts already-extracted text for ingestion. The
// document record is created in processing state before this returns;
// chunking, embedding and indexing run in the background.
func (s *IngestService) IngestText(ctx context.Context, name, text string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("document name: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	s.setActive(doc.ID, &driving.IngestStatus{
		DocumentID: doc.ID,
		Status:     domain.StatusProcessing,
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.clearActive(doc.ID)
		// Ingestion outlives the accept request, so the pipeline runs
		// on its own context rather than the caller's.
		s.process(context.Background(), doc.ID, name, text)
	}()

	logger.Info("Accepted document %s (%s)", doc.ID, name)
	return doc.ID, nil
}

// process runs the chunk -> embed -> insert pipeline for one document.
// A failing chunk is skipped and logged rather than aborting the
// document; only a document with zero indexed chunks ends in error.
func (s *IngestService) process(ctx context.Context, docID, name, text string) {
	logger.Section("Ingestion")
	logger.Debug("Document %s: chunking %d bytes", docID, len(text))

	if err := s.index.EnsureInitialized(ctx); err != nil {
		logger.Warn("Document %s: index init failed: %v", docID, err)
		s.finish(ctx, docID, domain.StatusError, fmt.Sprintf("index initialisation failed: %v", err), 0)
		return
	}

	chunks := s.chunks.Chunk(text)
	if len(chunks) == 0 {
		logger.Warn("Document %s: no text content", docID)
		s.finish(ctx, docID, domain.StatusError, "no text content", 0)
		return
	}
	logger.Debug("Document %s: %d chunks", docID, len(chunks))

	if err := s.docStore.SaveChunks(ctx, docID, chunks); err != nil {
		logger.Warn("Document %s: save chunk records failed: %v", docID, err)
		s.finish(ctx, docID, domain.StatusError, fmt.Sprintf("save chunks: %v", err), 0)
		return
	}

	indexed := 0
	skipped := 0
	// Chunks embed and insert in index order. Not required for
	// correctness, but it keeps the logs readable.
	for _, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			logger.Warn("Document %s: embed chunk %d failed, skipping: %v", docID, chunk.Index, err)
			skipped++
			s.bumpActive(docID, indexed, skipped)
			continue
		}

		_, err = s.index.Insert(ctx, domain.IndexedItem{
			Vector: vector,
			Metadata: domain.ItemMetadata{
				DocumentID:   docID,
				DocumentName: name,
				Content:      chunk.Content,
				ChunkIndex:   chunk.Index,
			},
		})
		if err != nil {
			logger.Warn("Document %s: insert chunk %d failed, skipping: %v", docID, chunk.Index, err)
			skipped++
			s.bumpActive(docID, indexed, skipped)
			continue
		}

		indexed++
		s.bumpActive(docID, indexed, skipped)
	}

	if indexed == 0 {
		logger.Warn("Document %s: all %d chunks failed", docID, len(chunks))
		s.finish(ctx, docID, domain.StatusError, "no chunks could be indexed", 0)
		return
	}

	logger.Info("Document %s: indexed %d/%d chunks", docID, indexed, len(chunks))
	s.finish(ctx, docID, domain.StatusIndexed, "", indexed)
}

// Delete removes a document's index items and then its metadata, in
// that order: a crash in between leaves orphaned index items (dead
// weight) rather than metadata pointing at a deleted document.
// Deleting an unknown document is a no-op.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	if err := s.index.EnsureInitialized(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	if err := s.index.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete index items: %w", err)
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete document: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate()
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}

// Status returns ingestion progress for a document. In-flight
// documents report live counters; settled documents report from the
// store.
func (s *IngestService) Status(ctx context.Context, documentID string) (*driving.IngestStatus, error) {
	s.mu.RLock()
	if st, ok := s.active[documentID]; ok {
		// Copy so callers never share the live struct.
		out := *st
		s.mu.RUnlock()
		return &out, nil
	}
	s.mu.RUnlock()

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &driving.IngestStatus{
		DocumentID:    doc.ID,
		Status:        doc.Status,
		ChunksIndexed: doc.ChunkCount,
	}, nil
}

// List returns all document records, newest first.
func (s *IngestService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Wait blocks until all in-flight ingestion work completes.
func (s *IngestService) Wait() {
	s.wg.Wait()
}

// finish records a document's terminal state and drops stale caches.
func (s *IngestService) finish(ctx context.Context, docID string, status domain.DocumentStatus, message string, chunkCount int) {
	if err := s.docStore.SetStatus(ctx, docID, status, message, chunkCount); err != nil {
		logger.Warn("Document %s: record status %s failed: %v", docID, status, err)
	}
	s.mu.Lock()
	if st, ok := s.active[docID]; ok {
		st.Status = status
	}
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func (s *IngestService) setActive(docID string, st *driving.IngestStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[docID] = st
}

func (s *IngestService) bumpActive(docID string, indexed, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.active[docID]; ok {
		st.ChunksIndexed = indexed
		st.ChunksSkipped = skipped
	}
}

func (s *IngestService) clearActive(docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, docID)
}
