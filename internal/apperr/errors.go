// Package apperr holds the error kinds shared across layers.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports which draft fields were rejected.
type ValidationError struct {
	// Fields maps a field name to its error message.
	Fields map[string]string
}

// NewValidationError converts a field error map (such as ozzo-validation's
// validation.Errors) into a ValidationError.
func NewValidationError(fields map[string]error) *ValidationError {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != nil {
			out[k] = v.Error()
		}
	}
	return &ValidationError{Fields: out}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, k := range sortedKeys(e.Fields) {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
