package webtools

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/revittco/mcptoolkit/internal/kernel"
)

// multiFetchSubOptions is fixed for every sub-fetch of fetch_multiple_urls:
// a plain User-Agent, headers never included.
func multiFetchSubOptions() FetchOptions {
	opts := DefaultFetchOptions()
	opts.IncludeHeaders = false
	return opts
}

// multiFetchEntry is one URL's outcome, success or failure.
type multiFetchEntry struct {
	URL     string
	Success bool
	Result  FetchResult
	Err     string
}

// FetchMultiple fans out a GET per URL concurrently and joins all of
// them, preserving input order in the result slice regardless of
// completion order.
func FetchMultiple(ctx context.Context, client *http.Client, urls []string) ([]multiFetchEntry, error) {
	if len(urls) > maxMultiFetchURLs {
		return nil, kernel.Domainf("Cannot fetch more than %d URLs at once", maxMultiFetchURLs)
	}

	out := make([]multiFetchEntry, len(urls))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	opts := multiFetchSubOptions()

	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			result, err := Fetch(gCtx, client, u, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out[i] = multiFetchEntry{URL: u, Success: false, Err: err.Error()}
				return nil
			}
			out[i] = multiFetchEntry{URL: u, Success: true, Result: result}
			return nil
		})
	}

	_ = g.Wait() // sub-fetch failures are per-entry, never fatal to the batch
	return out, nil
}

// RenderMultiFetch builds the printed report for fetch_multiple_urls.
func RenderMultiFetch(entries []multiFetchEntry, includeFailures bool) string {
	var b strings.Builder
	succeeded := 0

	for i, e := range entries {
		if e.Success {
			succeeded++
			fmt.Fprintf(&b, "[%d] %s\nStatus: %d %s\nContent Length: %d characters\n\n",
				i+1, e.URL, e.Result.StatusCode, e.Result.StatusText, utf8.RuneCountInString(e.Result.Body))
			continue
		}
		if includeFailures {
			fmt.Fprintf(&b, "[%d] %s\nFAILED: %s\n\n", i+1, e.URL, e.Err)
		}
	}

	fmt.Fprintf(&b, "Summary: %d/%d URLs fetched successfully", succeeded, len(entries))
	return b.String()
}
