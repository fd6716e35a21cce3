package schema

import (
	"encoding/json"
	"testing"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string", "minLength": 1},
		"limit": {"type": "integer", "minimum": 1, "maximum": 10000}
	}
}`

func TestValidatePasses(t *testing.T) {
	s, err := Compile("t", json.RawMessage(testSchema))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	errs, err := Validate(s, json.RawMessage(`{"query":"select 1","limit":10}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestValidateEmptyQueryFails(t *testing.T) {
	s, err := Compile("t", json.RawMessage(testSchema))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	errs, err := Validate(s, json.RawMessage(`{"query":""}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected a validation error for empty query")
	}

	msg := Summarize(errs)
	if msg[:len("Input validation failed: ")] != "Input validation failed: " {
		t.Fatalf("Summarize() = %q, wrong prefix", msg)
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	s, err := Compile("t", json.RawMessage(testSchema))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	errs, err := Validate(s, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected a validation error for missing query")
	}
}
