package common

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	// ErrAuthRequired is returned when a write is attempted without a session.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden is returned when the session lacks the admin role.
	ErrForbidden = errors.New("administrator role required")
)

// StoreError wraps a failure of the backing store: connectivity, timeouts and constraint violations.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapStore tags err as a StoreError unless it is already one of the known outcomes.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}

	var se *StoreError
	if errors.Is(err, ErrRecordNotFound) || errors.As(err, &se) {
		return err
	}

	return &StoreError{Op: op, Err: err}
}

// IsAuthError reports whether err is one of the authorization failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthRequired) || errors.Is(err, ErrForbidden)
}
