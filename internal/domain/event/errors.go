package event

import (
	"errors"
	"strings"
)

var ErrInvalidStatus = errors.New("invalid event status")

// ValidationError lists every violated capture-form field at once;
// nothing is saved while it is non-empty.
type ValidationError struct {
	Fields []FieldViolation
}

type FieldViolation struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
