package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImage_MetaPriority(t *testing.T) {
	html := `<html><head>
		<meta name="twitter:image" content="https://cdn.example.com/twitter.jpg">
		<meta property="og:image" content="https://cdn.example.com/og.jpg">
	</head></html>`
	assert.Equal(t, "https://cdn.example.com/og.jpg", Image(doc(t, html), "https://example.com/post"))
}

func TestImage_TwitterFallback(t *testing.T) {
	html := `<html><head><meta name="twitter:image" content="/img/card.jpg"></head></html>`
	assert.Equal(t, "https://example.com/img/card.jpg", Image(doc(t, html), "https://example.com/post"))
}

func TestImage_LinkImageSrc(t *testing.T) {
	html := `<html><head><link rel="image_src" href="https://cdn.example.com/link.png"></head></html>`
	assert.Equal(t, "https://cdn.example.com/link.png", Image(doc(t, html), "https://example.com/post"))
}

func TestImage_ContentImageSkipsDecoration(t *testing.T) {
	html := `<html><body>
		<img src="https://cdn.example.com/logo.png">
		<img src="https://cdn.example.com/tracker.gif">
		<img src="https://cdn.example.com/small.jpg" width="50" height="50">
		<img src="/photos/story.jpg" width="640">
	</body></html>`
	assert.Equal(t, "https://example.com/photos/story.jpg", Image(doc(t, html), "https://example.com/post"))
}

func TestImage_NothingQualifies(t *testing.T) {
	html := `<html><body><img src="https://cdn.example.com/icon-32.png"></body></html>`
	assert.Equal(t, "", Image(doc(t, html), "https://example.com/post"))
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		page string
		ref  string
		want string
	}{
		{"absolute kept", "https://example.com/a", "https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
		{"relative resolved", "https://example.com/posts/1", "../img/x.jpg", "https://example.com/img/x.jpg"},
		{"root relative", "https://example.com/posts/1", "/img/x.jpg", "https://example.com/img/x.jpg"},
		{"protocol relative", "https://example.com/a", "//cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
		{"empty ref", "https://example.com/a", "", ""},
		{"unparseable base", "://bad", "/img/x.jpg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.page, tt.ref))
		})
	}
}
