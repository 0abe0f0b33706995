package service

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks malformed input. Use errors.As with *ValidationError
	// to get the offending fields.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a uniqueness rule would be broken.
	ErrConflict = errors.New("conflict")

	// ErrAuthentication covers missing, invalid or expired credentials and
	// tokens. Callers are not told which one it was.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotFound is returned for notes that do not exist as well as for
	// notes owned by somebody else.
	ErrNotFound = errors.New("not found")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// validator collects field errors in the order they were found.
type validator struct {
	fields []FieldError
}

func (v *validator) add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		v.add(field, message)
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
