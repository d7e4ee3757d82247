// Package extract pulls titles, images and descriptions out of fetched
// documents and platform APIs, one enricher per resource type.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Title extracts a canonical page title: og:title meta, then the title
// element, then the first h1. Returns "" when nothing qualifies.
func Title(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if trimmed := strings.TrimSpace(og); trimmed != "" {
			return trimmed
		}
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// Description extracts a short page description from meta tags, or "".
func Description(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	for _, selector := range []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
	} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// BodyText flattens the page's paragraph text, capped at limit characters.
func BodyText(doc *goquery.Document, limit int) string {
	if doc == nil {
		return ""
	}

	var parts []string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
		return len(strings.Join(parts, "\n")) < limit
	})

	text := strings.Join(parts, "\n")
	if limit > 0 && len(text) > limit {
		text = text[:limit]
	}
	return text
}
