package domain

import (
	"errors"
	"fmt"
)

// ErrContractViolation marks inputs that a correct deployment never produces:
// unsafe relative paths, an empty or oversized module path, a missing module
// root. Callers wrap it with context and treat it as fatal.
var ErrContractViolation = errors.New("contract violation")

// ValidationError is an operator-facing failure reported as a single line.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError from a format string
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Violation wraps ErrContractViolation with a description of what was violated.
func Violation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrContractViolation, fmt.Sprintf(format, args...))
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
