// Package chunker splits extracted text into overlapping word windows.
package chunker

import (
	"strings"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of overlapping words.
const DefaultOverlap = 50

// Chunker produces fixed-size overlapping chunks from plain text.
// It is a pure function of its input: no I/O, no failure modes.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in words.
// Non-positive values keep the default.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive windows in words.
// Negative values keep the default.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Chunk splits text on whitespace into word windows of chunkSize words,
// each window starting max(chunkSize-overlap, 1) words after the
// previous one. The floor of 1 guarantees forward progress even when
// overlap >= chunkSize. The final window may be shorter than chunkSize
// and is still emitted. Empty or whitespace-only input yields no
// chunks, not an error.
//
// StartChar/EndChar accumulate byte lengths of the joined chunk text
// plus one separator per step. They approximate positions in the
// original document and are advisory only.
func (c *Chunker) Chunk(text string) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	if step < 1 {
		step = 1
	}

	chunks := make([]domain.Chunk, 0, len(words)/step+1)
	start := 0
	startChar := 0

	for index := 0; start < len(words); index++ {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		content := strings.Join(words[start:end], " ")
		chunks = append(chunks, domain.Chunk{
			Content:   content,
			Index:     index,
			StartChar: startChar,
			EndChar:   startChar + len(content),
		})

		if end == len(words) {
			break
		}

		// Advance the advisory offset by the step's worth of words
		// plus their separators.
		stepText := strings.Join(words[start:start+step], " ")
		startChar += len(stepText) + 1

		start += step
	}

	return chunks
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}
