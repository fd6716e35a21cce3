package kernel

import "testing"

func TestText(t *testing.T) {
	env := Text("hello")
	if env.IsError {
		t.Fatal("Text envelope must not be an error")
	}
	if len(env.Content) != 1 || env.Content[0].Text != "hello" {
		t.Fatalf("unexpected content: %+v", env.Content)
	}
}

func TestError(t *testing.T) {
	env := Error("boom")
	if !env.IsError {
		t.Fatal("Error envelope must be an error")
	}
	if env.Content[0].Text != "Error: boom" {
		t.Fatalf("text = %q, want %q", env.Content[0].Text, "Error: boom")
	}
}

func TestErrorf(t *testing.T) {
	env := Errorf("failed: %d", 42)
	if env.Content[0].Text != "Error: failed: 42" {
		t.Fatalf("text = %q", env.Content[0].Text)
	}
}
