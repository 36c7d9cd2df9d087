package clinic

import "errors"

// Sentinel errors the HTTP layer maps to status codes.
var (
	// ErrNotFound means the referenced entity does not exist (404).
	ErrNotFound = errors.New("not found")

	// ErrInvalid means the input failed validation (400).
	ErrInvalid = errors.New("invalid input")

	// ErrConflict means the operation is not allowed in the current state,
	// e.g. booking an unavailable doctor or an illegal status transition (409).
	ErrConflict = errors.New("conflict")
)
