// Package service holds the logic between handlers and repositories that
// is worth testing on its own: the owner authorization gate, the batch
// room flow and notification fan-out.
package service

import (
	"errors"
	"fmt"
)

// ErrNotOwner is returned by the gate when the caller may not manage a kos.
var ErrNotOwner = errors.New("not the owner of this kos")

// ValidationError is an input error: nothing was persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
