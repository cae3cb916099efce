package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers a missing tag, supply row or pending request.
	// A request that was already processed reports the same error, so
	// callers cannot fulfill it twice.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when a deduction would drive a
	// quantity negative. Nothing is mutated in that case.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError reports input rejected before any transaction is
// opened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
