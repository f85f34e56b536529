package service

import (
	"errors"
	"fmt"
)

// Sentinel errors classified at the request boundary. A zone or record
// that exists but belongs to someone else surfaces as ErrNotFound, never
// as a distinguishable "forbidden", so ownership probes leak nothing.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// ValidationError carries a field-level message for form rendering.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
