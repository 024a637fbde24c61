package driven

import "context"

// Extractor converts one file format into plain text.
//
// Extraction is an external collaborator of the retrieval engine:
// format parsing has no state machine of its own, so implementations
// stay thin and surface domain.ErrExtractionFailed when a file cannot
// be read or parsed. A readable file with no usable text extracts to
// an empty string; the ingestion pipeline records that as the
// document's error status.
type Extractor interface {
	// Extensions returns the file extensions this extractor handles,
	// lowercase with leading dot (e.g. ".md").
	Extensions() []string

	// Extract returns the plain-text content of the file.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry selects an extractor for a file path.
type ExtractorRegistry interface {
	// ExtractText extracts plain text from the file using the extractor
	// registered for its extension. Unknown extensions fall back to the
	// plaintext extractor.
	ExtractText(ctx context.Context, path string) (string, error)

	// Register adds an extractor for its declared extensions.
	Register(e Extractor)
}
