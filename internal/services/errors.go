package services

import (
	"errors"
	"fmt"
)

// ErrInvalid is matched by every input validation failure.
var ErrInvalid = errors.New("invalid input")

// FieldError names the offending field. errors.Is(err, ErrInvalid) holds.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Is(target error) bool { return target == ErrInvalid }

func invalid(field, reason string) error { return &FieldError{Field: field, Reason: reason} }
