package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/jobtrack/validation"
)

var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound covers both "does not exist" and "owned by someone else" so
	// posting mutations cannot be used to probe other users' data.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports missing or malformed required input. It is
// recoverable and surfaced as field-adjacent messages.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", map[string]string(e.Violations))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
