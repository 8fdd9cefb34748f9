package service

import (
	"errors"
	"fmt"
)

// Domain error kinds. Handlers map these to user-facing responses;
// anything else is treated as a storage failure and logged server-side.
var (
	ErrValidation         = errors.New("invalid input")
	ErrConflict           = errors.New("username or email already registered")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("wrong password")
	ErrForbidden          = errors.New("access denied")
	ErrSelfDeletion       = errors.New("cannot delete own account")
)

// ValidationError carries a user-facing message about malformed input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	if e == nil || e.Msg == "" {
		return ErrValidation.Error()
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
