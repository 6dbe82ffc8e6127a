package services

import (
	"errors"
	"strings"

	"patient-management-service/internal/validation"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUnauthorized is returned when a token is missing, malformed or expired.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError reports input that violates the record constraints.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// NewValidationError builds a ValidationError with optional details.
func NewValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// asValidationError converts validator output into a ValidationError. Other
// errors are returned unchanged.
func asValidationError(message string, err error) error {
	var fe *validation.FieldErrors
	if errors.As(err, &fe) {
		return &ValidationError{Message: message, Details: fe.Fields}
	}
	return err
}
