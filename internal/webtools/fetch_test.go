package webtools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><script>evil()</script><p>hello world</p></body></html>`)) //nolint:errcheck
	}))
	defer srv.Close()

	opts := DefaultFetchOptions()
	result, err := Fetch(context.Background(), srv.Client(), srv.URL, opts)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.StatusCode != 200 {
		t.Fatalf("StatusCode = %d, want 200", result.StatusCode)
	}
	if strings.Contains(result.Body, "evil()") {
		t.Fatalf("expected script content stripped, got %q", result.Body)
	}
	if !strings.Contains(result.Body, "hello world") {
		t.Fatalf("expected body text preserved, got %q", result.Body)
	}
}

func TestFetchRejectsUnsupportedContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("binary")) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL, DefaultFetchOptions())
	if err == nil {
		t.Fatal("expected unsupported content type to fail")
	}
	if !strings.Contains(err.Error(), "Unsupported content type") {
		t.Fatalf("error = %v", err)
	}
}

func TestFetchRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL, DefaultFetchOptions())
	if err == nil {
		t.Fatal("expected 404 to fail")
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Fatalf("error = %v", err)
	}
}

func TestFetchTruncatesLongBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(strings.Repeat("a", 100))) //nolint:errcheck
	}))
	defer srv.Close()

	opts := DefaultFetchOptions()
	opts.MaxLength = 10
	result, err := Fetch(context.Background(), srv.Client(), srv.URL, opts)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !result.Truncated {
		t.Fatal("expected Truncated to be true")
	}
	if len(result.Body) != 10 {
		t.Fatalf("len(Body) = %d, want 10", len(result.Body))
	}
	if !strings.Contains(Render(result, false), "[Content truncated...]") {
		t.Fatal("expected rendered report to include truncation marker")
	}
}
