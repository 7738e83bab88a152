package services

import (
	"errors"
	"fmt"
)

// Failure kinds. Handlers translate these into the response envelope;
// anything that does not match is treated as an internal error.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrOTPExpired = errors.New("otp expired")
)

// flowError pairs a failure kind with a user-facing message.
type flowError struct {
	kind    error
	message string
}

func (e *flowError) Error() string { return e.message }
func (e *flowError) Unwrap() error { return e.kind }

func failf(kind error, format string, args ...any) error {
	return &flowError{kind: kind, message: fmt.Sprintf(format, args...)}
}
