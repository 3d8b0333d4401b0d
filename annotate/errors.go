package annotate

import "errors"

var (
	// ErrDatabaseRequired is returned when a constructor receives a nil concept database.
	ErrDatabaseRequired = errors.New("concept database is required")

	// ErrPolicyRequired is returned when a merger is constructed without a
	// disambiguation policy.
	ErrPolicyRequired = errors.New("disambiguation policy is required")

	// ErrNoCandidates is returned when disambiguation is invoked with an empty
	// candidate set, which violates the caller contract.
	ErrNoCandidates = errors.New("candidate set is empty")
)
