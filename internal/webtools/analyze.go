package webtools

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// AnalyzeWebpage renders the requested sections of a fetched page's
// analysis report. fetchDuration and the length of html back the
// performance section; pageURL resolves relative image srcs.
func AnalyzeWebpage(html, pageURL string, sections []AnalysisSection, fetchDuration time.Duration) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page URL: %w", err)
	}

	var b strings.Builder
	for _, section := range sections {
		switch section {
		case SectionMetadata:
			renderMetadata(&b, doc)
		case SectionStructure:
			renderStructure(&b, doc)
		case SectionImages:
			renderImages(&b, doc, base)
		case SectionPerformance:
			renderPerformance(&b, fetchDuration, len(html))
		}
	}
	return b.String(), nil
}

func renderMetadata(b *strings.Builder, doc *goquery.Document) {
	b.WriteString("Metadata:\n")
	fmt.Fprintf(b, "  Title: %s\n", strings.TrimSpace(doc.Find("title").First().Text()))
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		fmt.Fprintf(b, "  Description: %s\n", desc)
	}
	if kw, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		fmt.Fprintf(b, "  Keywords: %s\n", kw)
	}
	b.WriteString("\n")
}

func renderStructure(b *strings.Builder, doc *goquery.Document) {
	b.WriteString("Structure:\n")
	fmt.Fprintf(b, "  h1: %d, h2: %d, h3: %d, p: %d, a[href]: %d\n",
		doc.Find("h1").Length(), doc.Find("h2").Length(), doc.Find("h3").Length(),
		doc.Find("p").Length(), doc.Find("a[href]").Length())

	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		fmt.Fprintf(b, "  First H1: %s\n", h1)
	}

	count := 0
	doc.Find("h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if count >= 5 {
			return false
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			fmt.Fprintf(b, "  H2: %s\n", text)
			count++
		}
		return true
	})
	b.WriteString("\n")
}

func renderImages(b *strings.Builder, doc *goquery.Document, base *url.URL) {
	b.WriteString("Images:\n")
	count := 0
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if count >= 20 {
			return false
		}
		src, _ := s.Attr("src")
		resolved, err := base.Parse(src)
		if err != nil {
			return true
		}
		alt, _ := s.Attr("alt")
		fmt.Fprintf(b, "  %s (alt: %s)\n", resolved.String(), alt)
		count++
		return true
	})
	b.WriteString("\n")
}

func renderPerformance(b *strings.Builder, fetchDuration time.Duration, htmlLen int) {
	b.WriteString("Performance:\n")
	fmt.Fprintf(b, "  Fetch duration: %d ms\n", fetchDuration.Milliseconds())
	fmt.Fprintf(b, "  HTML length: %d bytes\n", htmlLen)
}
