package match

import "errors"

var (
	// ErrDatabaseRequired is returned when a concept database is not provided.
	ErrDatabaseRequired = errors.New("concept database required")
)
