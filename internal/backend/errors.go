package backend

import (
	"errors"
	"fmt"
)

// ErrNotFound is the negative probe outcome: the backend answered and no
// record matched. It must never be conflated with a transport failure.
var ErrNotFound = errors.New("not_found")

// ErrConflict signals a uniqueness violation on create, meaning a record
// for the same email already exists.
var ErrConflict = errors.New("conflict")

// StatusError carries a non-2xx backend response that is neither a
// negative match nor a conflict.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend status %d", e.Status)
}
