// Package errs defines the control plane's error taxonomy. Handlers translate
// these into HTTP statuses; services below the gateway never see status codes.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers missing accounts, inactive accounts and
	// password mismatches alike, so login failures are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means the bearer token is missing, expired, revoked,
	// or its account is no longer active.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the session is valid but the role is insufficient.
	ErrForbidden = errors.New("forbidden")

	ErrConflict = errors.New("already exists")
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned for lifecycle commands that are illegal
	// in the bot's current state; the client should reconcile against the last
	// known status rather than retry.
	ErrInvalidTransition = errors.New("invalid bot transition")

	// ErrEngineUnavailable is transient; state has been rolled back and a
	// corrective status event published before it is returned.
	ErrEngineUnavailable = errors.New("execution engine unavailable")
)

// ValidationError reports malformed or out-of-enum input along with the
// offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
