package webtools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/revittco/mcptoolkit/internal/kernel"
	"github.com/revittco/mcptoolkit/internal/modules"
)

// Module builds the web fetch tool family as a lifecycle-managed
// module bound to one shared *http.Client.
func Module() *modules.Module {
	client := &http.Client{}

	return &modules.Module{
		Descriptor: modules.Descriptor{
			Name:        "web",
			Version:     "1.0.0",
			Description: "Bounded-concurrency HTTP fetch, HTML-to-text extraction, link extraction, and page analysis.",
		},
		Tools: func() ([]*kernel.Tool, error) {
			return buildTools(client)
		},
	}
}

func buildTools(client *http.Client) ([]*kernel.Tool, error) {
	defs := []struct {
		name, desc string
		schema     json.RawMessage
		handler    kernel.Handler
	}{
		{"fetch_url", "Fetch a single URL with content-type filtering, size truncation, and optional HTML-to-text extraction.", fetchURLSchema, handleFetchURL(client)},
		{"fetch_multiple_urls", "Fetch up to 10 URLs concurrently and report a per-URL success/failure summary.", fetchMultipleURLsSchema, handleFetchMultiple(client)},
		{"extract_links", "Extract and filter the absolute links found on a page.", extractLinksSchema, handleExtractLinks(client)},
		{"analyze_webpage", "Report metadata, structure, image, and performance information about a page.", analyzeWebpageSchema, handleAnalyzeWebpage(client)},
	}

	tools := make([]*kernel.Tool, 0, len(defs))
	for _, d := range defs {
		t, err := kernel.NewTool(d.name, d.desc, d.schema, d.handler)
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", d.name, err)
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func handleFetchURL(client *http.Client) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		req := struct {
			URL string `json:"url"`
			FetchOptions
		}{FetchOptions: DefaultFetchOptions()}

		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}

		ctx, cancel := context.WithTimeout(ctx, req.timeout())
		defer cancel()

		result, err := Fetch(ctx, client, req.URL, req.FetchOptions)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return kernel.Text(Render(result, req.IncludeHeaders)), nil
	}
}

func handleFetchMultiple(client *http.Client) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		req := struct {
			URLs            []string `json:"urls"`
			IncludeFailures bool     `json:"include_failures"`
		}{}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		entries, err := FetchMultiple(ctx, client, req.URLs)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return kernel.Text(RenderMultiFetch(entries, req.IncludeFailures)), nil
	}
}

func handleExtractLinks(client *http.Client) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		req := struct {
			URL string `json:"url"`
			LinkOptions
		}{LinkOptions: DefaultLinkOptions()}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}

		html, _, err := fetchRawHTML(ctx, client, req.URL)
		if err != nil {
			return kernel.Envelope{}, err
		}

		links, err := ExtractLinks(html, req.URL, req.LinkOptions)
		if err != nil {
			return kernel.Envelope{}, kernel.Resourcef("%s", err.Error())
		}
		return kernel.Text(RenderLinks(links, req.IncludeText)), nil
	}
}

func handleAnalyzeWebpage(client *http.Client) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		req := struct {
			URL      string            `json:"url"`
			Sections []AnalysisSection `json:"sections"`
		}{}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		if len(req.Sections) == 0 {
			req.Sections = []AnalysisSection{SectionMetadata, SectionStructure, SectionImages, SectionPerformance}
		}

		html, duration, err := fetchRawHTML(ctx, client, req.URL)
		if err != nil {
			return kernel.Envelope{}, err
		}

		report, err := AnalyzeWebpage(html, req.URL, req.Sections, duration)
		if err != nil {
			return kernel.Envelope{}, kernel.Resourcef("%s", err.Error())
		}
		return kernel.Text(report), nil
	}
}

// fetchRawHTML performs a plain GET for tools that need the raw HTML
// document rather than the text-extracted, truncated report fetch_url
// produces.
func fetchRawHTML(ctx context.Context, client *http.Client, rawURL string) (string, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, kernel.Domainf("invalid URL: %s", err.Error())
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, kernel.Resourcef("%s", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, kernel.Resourcef("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, kernel.Resourcef("read body: %s", err.Error())
	}
	return string(body), time.Since(start), nil
}
