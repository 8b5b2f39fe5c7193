package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stemsi/enrollment-backend/internal/validator"
)

// ValidationError reports field-level input errors. Nothing is written when
// a service returns it.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validate runs the binding tags of v, the same rules the HTTP layer applies.
func validate(v any) error {
	if fields := validator.ValidateStruct(v); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}
