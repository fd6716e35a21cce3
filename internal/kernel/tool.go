package kernel

import (
	"context"
	"encoding/json"

	"github.com/revittco/mcptoolkit/internal/kernel/schema"
)

// Handler is the inner callable of a Tool, invoked by the Dispatch
// Pipeline after schema validation has already passed. Handlers signal
// failure by returning an error; they never construct error envelopes
// themselves except for domain errors they want to message specially.
type Handler func(ctx context.Context, args json.RawMessage) (Envelope, error)

// Tool is an immutable descriptor for a single callable exposed to the
// MCP client. Constructed at module load, owned by the Registry for the
// lifetime of the process.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler

	compiled *schema.Schema
}

// NewTool builds a Tool and compiles its input schema once, up front, so
// the Dispatch Pipeline never pays compilation cost on the hot path. The
// schema document must be a valid Draft-07 object; an empty or malformed
// document fails compilation and NewTool returns that error.
func NewTool(name, description string, inputSchema json.RawMessage, handler Handler) (*Tool, error) {
	compiled, err := schema.Compile(name, inputSchema)
	if err != nil {
		return nil, err
	}
	return &Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
		Handler:     handler,
		compiled:    compiled,
	}, nil
}

// Schema returns the tool's compiled input schema for use by the
// Dispatch Pipeline.
func (t *Tool) Schema() *schema.Schema {
	return t.compiled
}

// ListEntry is the shape returned for a single tool by tools/list.
type ListEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}
