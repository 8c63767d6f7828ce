package domain

import (
	"sort"
	"strings"
)

// ValidationError reports bad input shape with per-field detail. It is
// detected before any read or write; callers map it to a 4xx response.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for f, m := range e.Fields {
		parts = append(parts, f+": "+m)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages returns the field messages as a sorted list for the error
// envelope.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for f, m := range e.Fields {
		msgs = append(msgs, f+" "+m)
	}
	sort.Strings(msgs)
	return msgs
}
