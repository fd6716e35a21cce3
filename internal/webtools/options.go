// Package webtools implements the web fetch tool family: single and
// bounded-concurrent HTTP GETs with content-type filtering, size
// truncation, HTML-to-text extraction, link extraction with same-host
// filtering, and page analysis.
package webtools

import "time"

// defaultUserAgent is the fixed desktop browser identity used when the
// caller does not override it.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// FetchOptions configures a single fetch_url call.
type FetchOptions struct {
	TimeoutMs       int    `json:"timeout_ms"`
	UserAgent       string `json:"user_agent"`
	FollowRedirects bool   `json:"follow_redirects"`
	IncludeHeaders  bool   `json:"include_headers"`
	TextOnly        bool   `json:"text_only"`
	MaxLength       int    `json:"max_length"`
}

// DefaultFetchOptions returns the spec-mandated defaults.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		TimeoutMs:       10000,
		UserAgent:       defaultUserAgent,
		FollowRedirects: true,
		IncludeHeaders:  false,
		TextOnly:        true,
		MaxLength:       50000,
	}
}

func (o FetchOptions) timeout() time.Duration {
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

// maxMultiFetchURLs bounds fetch_multiple_urls; exceeding it is a
// domain-level rejection, not a resource failure.
const maxMultiFetchURLs = 10

// MultiFetchOptions configures fetch_multiple_urls.
type MultiFetchOptions struct {
	IncludeFailures bool `json:"include_failures"`
}

// LinkFilter selects which links extract_links keeps.
type LinkFilter string

const (
	LinkFilterAll      LinkFilter = "all"
	LinkFilterInternal LinkFilter = "internal"
	LinkFilterExternal LinkFilter = "external"
)

// LinkOptions configures extract_links.
type LinkOptions struct {
	Filter      LinkFilter `json:"filter"`
	IncludeText bool       `json:"include_text"`
	Unique      bool       `json:"unique"`
	MaxLinks    int        `json:"max_links"`
}

// DefaultLinkOptions returns the spec-mandated defaults.
func DefaultLinkOptions() LinkOptions {
	return LinkOptions{
		Filter:      LinkFilterAll,
		IncludeText: true,
		Unique:      true,
		MaxLinks:    100,
	}
}

// AnalysisSection is one subset analyze_webpage can report.
type AnalysisSection string

const (
	SectionMetadata    AnalysisSection = "metadata"
	SectionStructure   AnalysisSection = "structure"
	SectionImages      AnalysisSection = "images"
	SectionPerformance AnalysisSection = "performance"
)
