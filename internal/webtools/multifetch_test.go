package webtools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchMultipleRejectsMoreThanTen(t *testing.T) {
	urls := make([]string, 11)
	for i := range urls {
		urls[i] = "https://example.invalid"
	}

	_, err := FetchMultiple(context.Background(), http.DefaultClient, urls)
	if err == nil {
		t.Fatal("expected rejection for more than 10 URLs")
	}
	if !strings.Contains(err.Error(), "Cannot fetch more than 10") {
		t.Fatalf("error = %v", err)
	}
}

func TestFetchMultiplePreservesOrderAndReportsFailures(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	defer ok.Close()

	fail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer fail.Close()

	entries, err := FetchMultiple(context.Background(), ok.Client(), []string{ok.URL, fail.URL, ok.URL})
	if err != nil {
		t.Fatalf("FetchMultiple: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if !entries[0].Success || entries[1].Success || !entries[2].Success {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].URL != ok.URL || entries[1].URL != fail.URL || entries[2].URL != ok.URL {
		t.Fatalf("order not preserved: %+v", entries)
	}

	report := RenderMultiFetch(entries, true)
	if !strings.Contains(report, "Summary: 2/3 URLs fetched successfully") {
		t.Fatalf("report = %q", report)
	}
	if !strings.Contains(report, "FAILED") {
		t.Fatalf("expected failure listed when includeFailures=true: %q", report)
	}
}
