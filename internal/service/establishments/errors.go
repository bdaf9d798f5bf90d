package establishments

import (
	"errors"
	"fmt"
)

var (
	ErrEstablishmentNotFound = errors.New("establishment not found")
	ErrEstablishmentExists   = errors.New("establishment already exists")

	ErrSubscriptionTypeNotFound = errors.New("subscription type not found")
	// ErrSubscriptionTypeExists is returned while an unexpired type with the
	// same name exists.
	ErrSubscriptionTypeExists = errors.New("subscription type already exists")
)

// ValidationError reports a business rule violation on otherwise well formed
// input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
