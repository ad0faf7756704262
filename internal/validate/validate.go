// Package validate holds the pre-flight checks for image and audio inputs.
// Every check is pure: it either passes or returns a *Error, before any
// network call is made.
package validate

import (
	"errors"
	"fmt"
)

// Error reports a rejected input. Field names what was checked,
// Reason says why it failed.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr)
}
