package webtools

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is one extracted anchor.
type Link struct {
	URL  string
	Text string
}

// ExtractLinks parses html relative to pageURL, resolves every anchor's
// href to an absolute URL, applies the host filter, and deduplicates
// and truncates per opts.
func ExtractLinks(html, pageURL string, opts LinkOptions) ([]Link, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var links []Link
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		abs := resolved.String()

		if !keepByFilter(base.Hostname(), resolved.Hostname(), opts.Filter) {
			return
		}
		if opts.Unique && seen[abs] {
			return
		}
		seen[abs] = true

		text := strings.TrimSpace(s.Text())
		if text == "" {
			text = "[No text]"
		}

		links = append(links, Link{URL: abs, Text: text})
	})

	if opts.MaxLinks > 0 && len(links) > opts.MaxLinks {
		links = links[:opts.MaxLinks]
	}
	return links, nil
}

func keepByFilter(pageHost, linkHost string, filter LinkFilter) bool {
	switch filter {
	case LinkFilterInternal:
		return linkHost == pageHost
	case LinkFilterExternal:
		return linkHost != pageHost
	default:
		return true
	}
}

// RenderLinks numbers the extracted links for the printed report.
func RenderLinks(links []Link, includeText bool) string {
	var b strings.Builder
	for i, l := range links {
		if includeText {
			fmt.Fprintf(&b, "%d. %s — %s\n", i+1, l.URL, l.Text)
		} else {
			fmt.Fprintf(&b, "%d. %s\n", i+1, l.URL)
		}
	}
	return b.String()
}
