package certstudio

import (
	"errors"
	"fmt"
)

// Sentinel errors for common overlay failure conditions.
var (
	ErrNoContent      = errors.New("certstudio: field has neither text nor a data value")
	ErrPageOutOfRange = errors.New("certstudio: target page is out of range")
	ErrNoRows         = errors.New("certstudio: no data rows available")
	ErrRowOutOfRange  = errors.New("certstudio: row index is out of range")
)

// FieldError reports a failure while processing a specific field.
// It wraps an underlying error and includes the field name for context.
type FieldError struct {
	Field string // field name from the configuration
	Err   error  // underlying error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("certstudio: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("certstudio: field %q: unknown error", e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// newFieldError creates a FieldError wrapping err with the field name.
func newFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}
