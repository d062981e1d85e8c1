package database

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = errors.New("record not found")

// ValidationError rejects a write before processing and names the missing
// required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
