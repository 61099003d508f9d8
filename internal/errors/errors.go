package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal
var (
	// Session errors
	ErrNoRefreshToken   = errors.New("no refresh token")
	ErrCorruptSession   = errors.New("corrupt session data")
	ErrSessionExpired   = errors.New("session expired")
	ErrLoginFailed      = errors.New("Login failed")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Storage errors
	ErrKeyNotFound  = errors.New("key not found")
	ErrDecryptStore = errors.New("unable to decrypt session store")

	// Request errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text
func New(text string) error {
	return errors.New(text)
}

// InputError is a validation failure with a message fit for display. It
// matches ErrInvalidInput.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid returns an InputError with msg
func Invalid(msg string) error {
	return &InputError{Message: msg}
}
