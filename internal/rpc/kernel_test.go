package rpc

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/revittco/mcptoolkit/internal/kernel"
)

func newTestKernel(t *testing.T) (*Kernel, *kernel.Registry) {
	t.Helper()
	registry := kernel.NewRegistry()
	tool, err := kernel.NewTool("echo", "echoes input",
		json.RawMessage(`{"type":"object","required":["msg"],"properties":{"msg":{"type":"string","minLength":1}}}`),
		func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
			var req struct {
				Msg string `json:"msg"`
			}
			json.Unmarshal(args, &req) //nolint:errcheck
			return kernel.Text(req.Msg), nil
		})
	if err != nil {
		t.Fatalf("NewTool: %v", err)
	}
	if err := registry.Register(tool); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return New(registry, ServerInfo{Name: "test", Version: "0.0.1"}), registry
}

func TestInitialize(t *testing.T) {
	k, _ := newTestKernel(t)
	resp := k.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))

	var decoded Response
	if err := json.Unmarshal(resp, &decoded); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if decoded.Error != nil {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}

	var result InitializeResult
	if err := json.Unmarshal(decoded.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.ProtocolVersion != ProtocolVersion {
		t.Fatalf("protocolVersion = %s", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "test" {
		t.Fatalf("serverInfo.name = %s", result.ServerInfo.Name)
	}
}

func TestToolsListIncludesRegisteredTool(t *testing.T) {
	k, _ := newTestKernel(t)
	resp := k.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	var decoded Response
	if err := json.Unmarshal(resp, &decoded); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	var result ToolsListResult
	if err := json.Unmarshal(decoded.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(result.Tools) != 1 || result.Tools[0].Name != "echo" {
		t.Fatalf("tools = %+v", result.Tools)
	}
}

func TestToolsCallDispatchesToHandler(t *testing.T) {
	k, _ := newTestKernel(t)
	resp := k.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"msg":"hi"}}}`))

	var decoded Response
	if err := json.Unmarshal(resp, &decoded); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	var env kernel.Envelope
	if err := json.Unmarshal(decoded.Result, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.IsError || env.Content[0].Text != "hi" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestToolsCallUnknownToolIsProtocolError(t *testing.T) {
	k, _ := newTestKernel(t)
	resp := k.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nope"}}`))

	var decoded Response
	if err := json.Unmarshal(resp, &decoded); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if decoded.Error == nil {
		t.Fatal("expected protocol error")
	}
	if !strings.Contains(decoded.Error.Message, "Tool not found: nope") {
		t.Fatalf("message = %q", decoded.Error.Message)
	}
}

func TestUnknownMethod(t *testing.T) {
	k, _ := newTestKernel(t)
	resp := k.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","id":5,"method":"bogus"}`))

	var decoded Response
	if err := json.Unmarshal(resp, &decoded); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if decoded.Error == nil || decoded.Error.Message != "Unknown method: bogus" {
		t.Fatalf("error = %+v", decoded.Error)
	}
}

func TestRequestIDOmittedWhenAbsent(t *testing.T) {
	k, _ := newTestKernel(t)
	resp := k.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","method":"initialize"}`))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if _, present := raw["id"]; present {
		t.Fatalf("expected id to be omitted, got %s", resp)
	}
}
