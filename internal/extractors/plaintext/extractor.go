// Package plaintext extracts text from plain text files. It is also
// the fallback for unknown extensions.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{
		".txt",
		".text",
		".log",
		".csv",
		".json",
		".yaml",
		".yml",
		".toml",
		".go",
		".py",
		".rs",
		".java",
		".c",
		".sh",
		".sql",
	}
}

// Extract returns the file content as-is. Files that are not valid
// UTF-8 text are rejected rather than indexed as garbage.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	if bytes.ContainsRune(data, 0) || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not a text file", domain.ErrExtractionFailed, path)
	}

	return string(data), nil
}
