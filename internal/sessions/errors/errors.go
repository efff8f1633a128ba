package errors

import "errors"

var (
	ErrNotFound = errors.New("session not found")

	ErrInvalidID = errors.New("invalid session ID format")

	ErrCapacityExceeded = errors.New("session capacity exceeded")

	ErrAllocationMismatch = errors.New("individual costs must add up to the total amount")

	ErrInvalidInput = errors.New("invalid session input")

	ErrInvalidState = errors.New("operation not allowed in current session state")
)
