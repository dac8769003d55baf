package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals an absent user, vote or notification.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate signals a second vote for the same
	// (reporter, target, match) triple.
	ErrDuplicate = errors.New("already voted for this player this match")
)

// ValidationError reports malformed input. It is always surfaced to the
// caller with enough detail to fix the request.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a failure of the backing store. Callers may retry
// idempotent reads; the core never retries on its own.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// DispatchError wraps a failed outbound notification delivery. It is logged
// and never surfaced to the vote-submission caller.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string { return fmt.Sprintf("dispatch: %v", e.Err) }

func (e *DispatchError) Unwrap() error { return e.Err }
