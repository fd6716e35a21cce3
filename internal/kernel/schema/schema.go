// Package schema wraps Draft-07 JSON Schema compilation and validation
// for the tool-server kernel. Each tool's input_schema is compiled once
// at registration time; validation on the hot path never reparses the
// schema document.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a compiled Draft-07 document ready for repeated validation.
type Schema struct {
	compiled *jsonschema.Schema
	name     string
}

// Compile parses and compiles a Draft-07 JSON Schema document. The name
// is used only for error-message context (the tool name).
func Compile(name string, document json.RawMessage) (*Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7

	if err := c.AddResource(name, strings.NewReader(string(document))); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	compiled, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{compiled: compiled, name: name}, nil
}

// FieldError is a single field-pathed validation failure.
type FieldError struct {
	Path   string
	Reason string
}

// Validate checks args against the compiled schema. On success it
// returns a nil error slice; on failure it returns one FieldError per
// constraint violation, each with a JSON-Pointer-style path.
func Validate(s *Schema, args json.RawMessage) ([]FieldError, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	var v any
	if err := json.Unmarshal(args, &v); err != nil {
		return []FieldError{{Path: "$", Reason: "invalid JSON: " + err.Error()}}, nil
	}

	err := s.compiled.Validate(v)
	if err == nil {
		return nil, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []FieldError{{Path: "$", Reason: err.Error()}}, nil
	}

	return flatten(ve), nil
}

// flatten walks a jsonschema.ValidationError tree and collects leaf
// causes into field-pathed messages. Leaves (causes with no further
// children) carry the actual constraint failure; internal nodes only
// describe "doesn't validate with" wrapper text that isn't useful to a
// caller.
func flatten(ve *jsonschema.ValidationError) []FieldError {
	if len(ve.Causes) == 0 {
		return []FieldError{{
			Path:   pointerPath(ve.InstanceLocation),
			Reason: ve.Message,
		}}
	}

	var out []FieldError
	for _, cause := range ve.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}

// pointerPath renders a JSON Pointer such as "/field/sub" as the wire
// contract's "$.field.sub" path notation.
func pointerPath(pointer string) string {
	if pointer == "" {
		return "$"
	}
	return "$" + strings.ReplaceAll(pointer, "/", ".")
}

// Summarize aggregates field errors into the single wire-contract
// message: "Input validation failed: " + comma-joined "<path>: <reason>".
func Summarize(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Path, e.Reason))
	}
	return "Input validation failed: " + strings.Join(parts, ", ")
}
