// Package kernel implements the tool-server core: the response envelope,
// the tool registry, and the error taxonomy shared across the dispatch
// pipeline, transport, and JSON-RPC layers.
package kernel

import "fmt"

// ContentPart is a single item in a Response Envelope's content sequence.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the uniform value returned by every tool invocation.
type Envelope struct {
	Content []ContentPart `json:"content"`
	IsError bool          `json:"isError"`
}

// Text builds a success envelope wrapping a single text part.
func Text(s string) Envelope {
	return Envelope{
		Content: []ContentPart{{Type: "text", Text: s}},
		IsError: false,
	}
}

// Error builds an error envelope. The wire contract requires every error
// envelope's text to begin with "Error: "; callers pass the bare message.
func Error(msg string) Envelope {
	return Envelope{
		Content: []ContentPart{{Type: "text", Text: "Error: " + msg}},
		IsError: true,
	}
}

// Errorf is a convenience wrapper around Error for formatted messages.
func Errorf(format string, args ...any) Envelope {
	return Error(fmt.Sprintf(format, args...))
}
