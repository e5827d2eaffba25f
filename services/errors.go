package services

import (
	"errors"
	"fmt"
)

// The workflow surfaces four distinct failure kinds so the HTTP layer can map
// each to its own response semantics. Inspect them with errors.As or the
// Is* helpers below.

// ValidationError rejects a submission before anything is persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an operation on an unknown listing id.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// StateConflictError reports a decision attempted on a listing that is not
// PENDING, including the loser of a concurrent double-decision race.
type StateConflictError struct {
	Message string
}

func (e *StateConflictError) Error() string { return e.Message }

// StorageError wraps a persistence or blob-store failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsStateConflict(err error) bool {
	var sce *StateConflictError
	return errors.As(err, &sce)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
