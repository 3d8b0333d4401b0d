package lexicon

import "errors"

var (
	// ErrMissingHeader indicates that the concept CSV has no header row.
	ErrMissingHeader = errors.New("missing header row")

	// ErrMissingColumn indicates that a required CSV column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRecord indicates that a concept or pattern record could not
	// be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)
