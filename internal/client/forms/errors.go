// Package forms validates the console's create/edit forms, assembles their
// request payloads and manages the lifetime of selected image previews.
//
// Validation always runs before any request is built, so a rejected form
// never reaches the network.
package forms

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("validation failed")

// FieldForm keys errors that concern the form as a whole.
const FieldForm = "form"

// ValidationError maps form fields to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, " ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Field returns the message for one field, "" when it passed.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

type checker map[string]string

// fail records the first message for field.
func (c checker) fail(field, msg string) {
	if _, ok := c[field]; !ok {
		c[field] = msg
	}
}

func (c checker) err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Fields: maps.Clone(c)}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
