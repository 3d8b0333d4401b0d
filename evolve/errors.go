package evolve

import "errors"

var (
	// ErrBackendRequired is returned when a controller is constructed without
	// an initial backend.
	ErrBackendRequired = errors.New("initial backend is required")

	// ErrInvalidRegistration is returned when a backend registration misses
	// an identifier or factory.
	ErrInvalidRegistration = errors.New("backend registration requires id and factory")

	// ErrDuplicateBackend is returned when a backend id is registered twice.
	ErrDuplicateBackend = errors.New("backend already registered")
)
