package html

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
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestExtensions(t *testing.T) {
	e := New()
	assert.Contains(t, e.Extensions(), ".html")
	assert.Contains(t, e.Extensions(), ".htm")
}

func TestExtract_StripsTags(t *testing.T) {
	e := New()
	path := writeFile(t, `<html><head><title>Page</title></head><body><p>First paragraph</p><p>Second &amp; third</p></body></html>`)

	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "First paragraph")
	assert.Contains(t, text, "Second & third")
	assert.NotContains(t, text, "<p>")
	// Head content is dropped entirely
	assert.NotContains(t, text, "Page")
}

func TestExtract_StripsScriptAndStyle(t *testing.T) {
	e := New()
	path := writeFile(t, `<body><script>alert("x")</script><style>p { color: red }</style><p>visible</p></body>`)

	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "visible", text)
}

func TestExtract_BlockBoundariesBecomeNewlines(t *testing.T) {
	e := New()
	path := writeFile(t, `<div>one</div><div>two</div>`)

	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "one\ntwo", text)
}

func TestExtract_MissingFile(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "/does/not/exist.html")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
