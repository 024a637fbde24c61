package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestExtensions(t *testing.T) {
	e := New()
	assert.Contains(t, e.Extensions(), ".md")
	assert.Contains(t, e.Extensions(), ".markdown")
}

func TestExtract_StripsFormatting(t *testing.T) {
	e := New()
	path := writeFile(t, "# Title\n\nSome **bold** and *italic* text with [a link](https://example.com).\n")

	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Some bold and italic text with a link.")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "https://example.com")
}

func TestExtract_StripsCodeBlocks(t *testing.T) {
	e := New()
	path := writeFile(t, "Before\n\n```go\nfunc main() {}\n```\n\nAfter with `inline` code\n")

	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "Before")
	assert.Contains(t, text, "After with  code")
	assert.NotContains(t, text, "func main")
	assert.NotContains(t, text, "inline")
}

func TestExtract_StripsListMarkers(t *testing.T) {
	e := New()
	path := writeFile(t, "- first item\n- second item\n1. numbered\n> quoted\n")

	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "first item")
	assert.Contains(t, text, "numbered")
	assert.Contains(t, text, "quoted")
	assert.NotContains(t, text, "- ")
	assert.NotContains(t, text, "> ")
}

func TestExtract_MissingFile(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "/does/not/exist.md")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
