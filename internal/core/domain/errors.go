package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input,
	// such as an empty question or query.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelUnavailable indicates the embedding or generation model
	// could not be reached. This is recoverable: document management
	// and keyword-free operation continue without it.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrIndexUninitialized indicates a vector index operation was
	// invoked before the index storage was initialised.
	ErrIndexUninitialized = errors.New("vector index not initialised")

	// ErrStorageIO indicates a persistence failure in the vector index
	// (disk full, permission denied). Such errors propagate; they are
	// never silently swallowed.
	ErrStorageIO = errors.New("index storage failure")

	// ErrExtractionFailed indicates upstream text extraction produced
	// no usable content. Surfaces as a per-document error status,
	// never a crash.
	ErrExtractionFailed = errors.New("text extraction failed")
)
