package apperror

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error is bound to exactly one kind so the
// transport layer can map it without knowing the domain.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("resource not found")
	ErrStateConflict = errors.New("state conflict")
	ErrPermission    = errors.New("permission denied")
	ErrPersistence   = errors.New("persistence error")
)

// Error is a domain sentinel carrying its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New creates a sentinel error of the given kind.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Persistence wraps a storage failure so that it matches ErrPersistence
// while keeping the driver error reachable through errors.Is / errors.As.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &persistenceError{op: op, err: err}
}

type persistenceError struct {
	op  string
	err error
}

func (e *persistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *persistenceError) Unwrap() error {
	return e.err
}

func (e *persistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// KindOf returns the kind of err, or nil when err carries no known kind.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrStateConflict, ErrPermission, ErrPersistence} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
