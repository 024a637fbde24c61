package extractors

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
	"github.com/quilline-labs/quill-cli/internal/extractors/html"
	"github.com/quilline-labs/quill-cli/internal/extractors/markdown"
	"github.com/quilline-labs/quill-cli/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors. Extensions are matched
// case-insensitively; later registrations win.
type Registry struct {
	mu       sync.RWMutex
	byExt    map[string]driven.Extractor
	fallback driven.Extractor
}

// NewRegistry creates an empty registry with the given fallback
// extractor for unknown extensions.
func NewRegistry(fallback driven.Extractor) *Registry {
	return &Registry{
		byExt:    make(map[string]driven.Extractor),
		fallback: fallback,
	}
}

// NewDefaultRegistry creates a registry with all built-in extractors
// registered and plaintext as the fallback.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(plaintext.New())
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	return r
}

// Register adds an extractor for its declared extensions.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// ExtractText extracts plain text from the file using the extractor
// registered for its extension.
func (r *Registry) ExtractText(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	e, ok := r.byExt[ext]
	if !ok {
		e = r.fallback
	}
	r.mu.RUnlock()

	return e.Extract(ctx, path)
}
