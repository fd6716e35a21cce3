package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/revittco/mcptoolkit/internal/kernel"
	"github.com/revittco/mcptoolkit/internal/kernel/dispatch"
)

// ProtocolVersion is the MCP protocol version this kernel speaks.
const ProtocolVersion = "2024-11-05"

// Kernel routes JSON-RPC requests to the fixed method table: initialize,
// tools/list, tools/call. It holds no transport-level state; Transport
// implementations feed it one decoded line at a time.
type Kernel struct {
	registry *kernel.Registry
	info     ServerInfo
}

// New builds a Kernel bound to a tool registry.
func New(registry *kernel.Registry, info ServerInfo) *Kernel {
	return &Kernel{registry: registry, info: info}
}

// Handle parses one input line, routes it, and returns the response
// line to write back. A malformed line yields a protocol error
// response with no id, since the id could not be recovered.
func (k *Kernel) Handle(ctx context.Context, line []byte) []byte {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return k.marshal(protocolError(nil, err.Error()))
	}
	return k.marshal(k.route(ctx, req))
}

func (k *Kernel) route(ctx context.Context, req Request) Response {
	switch req.Method {
	case "initialize":
		return k.handleInitialize(req)
	case "tools/list":
		return k.handleToolsList(req)
	case "tools/call":
		return k.handleToolsCall(ctx, req)
	default:
		return protocolError(req.ID, fmt.Sprintf("Unknown method: %s", req.Method))
	}
}

func (k *Kernel) handleInitialize(req Request) Response {
	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      k.info,
	}
	return resultResponse(req.ID, result)
}

func (k *Kernel) handleToolsList(req Request) Response {
	entries := k.registry.List()
	tools := make([]ToolSummary, 0, len(entries))
	for _, e := range entries {
		tools = append(tools, ToolSummary{
			Name:        e.Name,
			Description: e.Description,
			InputSchema: e.InputSchema,
		})
	}
	return resultResponse(req.ID, ToolsListResult{Tools: tools})
}

func (k *Kernel) handleToolsCall(ctx context.Context, req Request) Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return protocolError(req.ID, fmt.Sprintf("Invalid params: %s", err.Error()))
	}
	if params.Name == "" {
		return protocolError(req.ID, "Invalid params: name is required")
	}

	tool, ok := k.registry.Get(params.Name)
	if !ok {
		return protocolError(req.ID, fmt.Sprintf("Tool not found: %s", params.Name))
	}

	env := dispatch.Call(ctx, tool, params.Arguments)
	return resultResponse(req.ID, env)
}

func resultResponse(id json.RawMessage, result any) Response {
	data, err := json.Marshal(result)
	if err != nil {
		slog.Error("marshal result failed", "error", err)
		return protocolError(id, err.Error())
	}
	return Response{JSONRPC: "2.0", ID: id, Result: data}
}

func protocolError(id json.RawMessage, message string) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &Error{Code: CodeProtocolError, Message: message},
	}
}

func (k *Kernel) marshal(resp Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("marshal response failed", "error", err)
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32000,"message":"internal marshal failure"}}`)
	}
	return data
}
