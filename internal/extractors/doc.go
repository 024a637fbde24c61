// Package extractors provides implementations of the Extractor
// interface for various document formats. Each extractor knows how to
// pull plain text out of a specific file format.
//
// Extractors are registered with the Registry at startup; unknown
// extensions fall back to the plaintext extractor.
package extractors
