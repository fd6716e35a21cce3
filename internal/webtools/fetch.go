package webtools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/revittco/mcptoolkit/internal/kernel"
)

// allowedContentTypes are the only Content-Type substrings fetch_url
// will accept; anything else fails with ResourceError.
var allowedContentTypes = []string{"text/html", "text/plain", "application/json"}

// FetchResult is the outcome of a single successful fetch, rendered by
// Render into the printed report fetch_url returns.
type FetchResult struct {
	URL         string
	StatusCode  int
	StatusText  string
	ContentType string
	Body        string
	Truncated   bool
	Headers     http.Header
}

// Fetch issues the GET, validates status and content type, extracts
// text if requested, and truncates to MaxLength.
func Fetch(ctx context.Context, client *http.Client, rawURL string, opts FetchOptions) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return FetchResult{}, kernel.Domainf("invalid URL: %s", err.Error())
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	httpClient := client
	if !opts.FollowRedirects {
		c := *client
		c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
		httpClient = &c
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return FetchResult{}, kernel.Resourcef("%s", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FetchResult{}, kernel.Resourcef("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if !isSupportedContentType(contentType) {
		return FetchResult{}, kernel.Resourcef("Unsupported content type: %s", contentType)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, kernel.Resourcef("read body: %s", err.Error())
	}
	body := string(bodyBytes)

	if opts.TextOnly && strings.Contains(contentType, "text/html") {
		body, err = htmlToText(body)
		if err != nil {
			return FetchResult{}, kernel.Resourcef("parse HTML: %s", err.Error())
		}
	}

	truncated := false
	if runes := []rune(body); opts.MaxLength > 0 && len(runes) > opts.MaxLength {
		body = string(runes[:opts.MaxLength])
		truncated = true
	}

	return FetchResult{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		StatusText:  http.StatusText(resp.StatusCode),
		ContentType: contentType,
		Body:        body,
		Truncated:   truncated,
		Headers:     resp.Header,
	}, nil
}

func isSupportedContentType(ct string) bool {
	for _, allowed := range allowedContentTypes {
		if strings.Contains(ct, allowed) {
			return true
		}
	}
	return false
}

// htmlToText strips <script> and <style> subtrees and returns the
// remaining visible text.
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text()), nil
}

// Render builds the printed report for a single successful fetch.
func Render(r FetchResult, includeHeaders bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\nStatus: %d %s\nContent-Type: %s\nContent Length: %d characters\n",
		r.URL, r.StatusCode, r.StatusText, r.ContentType, utf8.RuneCountInString(r.Body))

	if includeHeaders {
		b.WriteString("Headers:\n")
		for k, v := range r.Headers {
			fmt.Fprintf(&b, "  %s: %s\n", k, strings.Join(v, ", "))
		}
	}

	b.WriteString("Content:\n")
	b.WriteString(r.Body)
	if r.Truncated {
		b.WriteString("\n\n[Content truncated...]")
	}
	return b.String()
}
