// Package watcher ingests documents dropped into a watched directory.
//
// Files created or modified under the directory are (re-)ingested;
// files removed or renamed away have their documents deleted. Hidden
// files, subdirectories and non-write events are skipped. Writes are
// debounced so a file being copied in is ingested once, after it goes
// quiet.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quilline-labs/quill-cli/internal/core/ports/driving"
	"github.com/quilline-labs/quill-cli/internal/logger"
)

// DefaultSettleDelay is how long a file must stay quiet before it is
// ingested.
const DefaultSettleDelay = 500 * time.Millisecond

// Watcher mirrors one directory into the document index.
type Watcher struct {
	dir      string
	ingestor driving.Ingestor
	settle   time.Duration

	mu     sync.Mutex
	docs   map[string]string      // file path -> document ID
	timers map[string]*time.Timer // pending settle timers per path
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettleDelay overrides the write debounce window.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New creates a watcher over dir feeding the given ingestor.
func New(dir string, ingestor driving.Ingestor, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		ingestor: ingestor,
		settle:   DefaultSettleDelay,
		docs:     make(map[string]string),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the directory until ctx is cancelled. Files already in
// the directory are ingested first, then changes are mirrored as they
// happen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	logger.Info("Watching %s", w.dir)
	w.scanExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			w.drainTimers()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// scanExisting ingests files already present when watching starts.
func (w *Watcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("Scan %s: %v", w.dir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		w.ingest(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// handleEvent maps one filesystem event onto the document set.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if isHidden(event.Name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return
		}
		w.scheduleIngest(ctx, event.Name)

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.cancelPending(event.Name)
		w.remove(ctx, event.Name)
	}
	// Chmod and other ops carry no content change.
}

// scheduleIngest (re)arms the settle timer for path. The ingest fires
// once the file has been quiet for the settle window.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

// cancelPending stops a not-yet-fired ingest for path.
func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
	}
}

// drainTimers stops all pending timers on shutdown.
func (w *Watcher) drainTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// ingest replaces any previous document for path with a fresh one.
func (w *Watcher) ingest(ctx context.Context, path string) {
	w.mu.Lock()
	prev := w.docs[path]
	w.mu.Unlock()

	if prev != "" {
		if err := w.ingestor.Delete(ctx, prev); err != nil {
			logger.Warn("Replace %s: delete old document: %v", path, err)
		}
	}

	id, err := w.ingestor.IngestFile(ctx, path)
	if err != nil {
		logger.Warn("Ingest %s: %v", path, err)
		return
	}

	w.mu.Lock()
	w.docs[path] = id
	w.mu.Unlock()
	logger.Info("Ingested %s as %s", path, id)
}

// remove deletes the document previously ingested for path, if any.
func (w *Watcher) remove(ctx context.Context, path string) {
	w.mu.Lock()
	id := w.docs[path]
	delete(w.docs, path)
	w.mu.Unlock()

	if id == "" {
		return
	}
	if err := w.ingestor.Delete(ctx, id); err != nil {
		logger.Warn("Remove %s: %v", path, err)
		return
	}
	logger.Info("Removed document %s for %s", id, path)
}

// isHidden reports whether any path element starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
