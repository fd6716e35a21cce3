package kernel

import (
	"context"
	"encoding/json"
	"testing"
)

func mustTool(t *testing.T, name string) *Tool {
	t.Helper()
	tool, err := NewTool(name, "desc", json.RawMessage(`{"type":"object"}`), func(ctx context.Context, args json.RawMessage) (Envelope, error) {
		return Text("ok"), nil
	})
	if err != nil {
		t.Fatalf("NewTool(%s): %v", name, err)
	}
	return tool
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	tool := mustTool(t, "alpha")

	if err := r.Register(tool); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, ok := r.Get("alpha")
	if !ok || got != tool {
		t.Fatalf("Get(alpha) = %v, %v", got, ok)
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(mustTool(t, "alpha")); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register(mustTool(t, "alpha")); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryListPreservesOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"c", "a", "b"}
	for _, n := range names {
		if err := r.Register(mustTool(t, n)); err != nil {
			t.Fatalf("Register(%s): %v", n, err)
		}
	}

	list := r.List()
	if len(list) != len(names) {
		t.Fatalf("List() length = %d, want %d", len(list), len(names))
	}
	for i, n := range names {
		if list[i].Name != n {
			t.Fatalf("List()[%d].Name = %s, want %s", i, list[i].Name, n)
		}
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.Register(mustTool(t, "alpha")) //nolint:errcheck
	r.Clear()
	if r.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", r.Len())
	}
}
