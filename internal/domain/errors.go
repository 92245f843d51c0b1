package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("donation not found")
	ErrInvalidType      = errors.New("invalid donation type")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidQuantity  = errors.New("quantity must be a finite number")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrEmptyField       = errors.New("must not be empty")
)

// ValidationError reports which field broke a record invariant.
type ValidationError struct {
	Field string
	Err   error
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
