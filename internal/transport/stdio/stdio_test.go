package stdio

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
)

func TestStartFailsWithoutHandler(t *testing.T) {
	tr := New(strings.NewReader(""), &bytes.Buffer{})
	if err := tr.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail without a handler")
	}
}

func TestStartEchoesLines(t *testing.T) {
	in := strings.NewReader("one\ntwo\nthree\n")
	var out bytes.Buffer
	var mu sync.Mutex

	tr := New(in, &out)
	tr.SetMessageHandler(func(ctx context.Context, line []byte) []byte {
		mu.Lock()
		defer mu.Unlock()
		return append([]byte("echo:"), line...)
	})

	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	got := out.String()
	for _, want := range []string{"echo:one", "echo:two", "echo:three"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
}

func TestStartSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("one\n\n\ntwo\n")
	var out bytes.Buffer
	var calls int
	var mu sync.Mutex

	tr := New(in, &out)
	tr.SetMessageHandler(func(ctx context.Context, line []byte) []byte {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	})

	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestIsRunningBeforeAndAfterStart(t *testing.T) {
	in := strings.NewReader("one\n")
	var out bytes.Buffer

	tr := New(in, &out)
	tr.SetMessageHandler(func(ctx context.Context, line []byte) []byte { return nil })

	if tr.IsRunning() {
		t.Fatal("should not be running before Start")
	}
	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if tr.IsRunning() {
		t.Fatal("should not be running after Start returns")
	}
}
