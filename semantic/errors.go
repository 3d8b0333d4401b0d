package semantic

import "errors"

var (
	// ErrEmbedderRequired is returned when a backend is constructed without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired is returned when a backend is constructed without a concept index.
	ErrIndexRequired = errors.New("concept index is required")

	// ErrBackendUnavailable is returned when the embedding backend cannot serve a
	// request (circuit open, timeout, or transport failure). Callers treat it as
	// "no semantic match", never as a document failure.
	ErrBackendUnavailable = errors.New("semantic backend unavailable")

	// ErrDimensionMismatch is returned when a query vector's length does not match
	// the index's vector dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
