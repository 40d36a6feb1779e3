package domain

import (
	"fmt"
	"strings"
)

// FieldError names one offending attribute or query parameter.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects field errors. Parameter marks errors raised by
// query parameters rather than document attributes.
type ValidationError struct {
	Parameter bool
	Fields    []FieldError
}

// NewFieldError returns a single attribute error.
func NewFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

// NewParameterError returns a single query parameter error.
func NewParameterError(param, msg string) *ValidationError {
	return &ValidationError{Parameter: true, Fields: []FieldError{{Field: param, Message: msg}}}
}

func (v *ValidationError) Add(field, msg string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: msg})
}

// OrNil returns v as an error, or nil when nothing was collected.
func (v *ValidationError) OrNil() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
