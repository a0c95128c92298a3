package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthRequired is returned when an operation runs without a principal.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden is returned when the principal may not read or mutate the booking.
	ErrForbidden = errors.New("access denied")
	// ErrNotFound is returned when no record exists for the given id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a cancel hits a terminal booking.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrDuplicateReference is returned by the repository when the booking
	// reference collides with an existing one at insert time.
	ErrDuplicateReference = errors.New("duplicate booking reference")
	// ErrNegativeAmount is returned by the pricing calculator when the inputs
	// would produce a negative amount, such as a discount above 100%.
	ErrNegativeAmount = errors.New("pricing produced a negative amount")
)

// FieldError names a single violated field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violated field of a payload. It is built
// before any persistence call so failed validation never leaves partial state.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns the error only when at least one field failed.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
