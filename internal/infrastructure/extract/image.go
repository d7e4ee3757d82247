package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// minContentImageSize is the smallest declared width/height a content
// image may have before it is dismissed as decoration.
const minContentImageSize = 100

var skipImagePattern = regexp.MustCompile(`(?i)logo|icon|avatar|sprite|spacer|pixel|tracker|badge|button|1x1`)

// Image selects a representative image for the page: og:image, then
// twitter:image, then a link rel=image_src, then the first qualifying
// content image. The result is resolved against pageURL; "" when nothing
// qualifies.
func Image(doc *goquery.Document, pageURL string) string {
	if doc == nil {
		return ""
	}

	for _, selector := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if resolved := ResolveURL(pageURL, content); resolved != "" {
				return resolved
			}
		}
	}

	if href, ok := doc.Find(`link[rel="image_src"]`).First().Attr("href"); ok {
		if resolved := ResolveURL(pageURL, href); resolved != "" {
			return resolved
		}
	}

	return contentImage(doc, pageURL)
}

// contentImage scans body images, excluding icons, logos and tracking
// pixels by source pattern or declared size.
func contentImage(doc *goquery.Document, pageURL string) string {
	var found string
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return true
		}
		if skipImagePattern.MatchString(src) {
			return true
		}
		if tooSmall(img, "width") || tooSmall(img, "height") {
			return true
		}

		if resolved := ResolveURL(pageURL, src); resolved != "" {
			found = resolved
			return false
		}
		return true
	})
	return found
}

func tooSmall(img *goquery.Selection, attr string) bool {
	raw, ok := img.Attr(attr)
	if !ok {
		return false
	}
	size, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
	if err != nil {
		return false
	}
	return size < minContentImageSize
}

// ResolveURL resolves a possibly relative reference against the page URL.
// Returns "" when either part fails to parse.
func ResolveURL(pageURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return parsed.String()
	}

	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
