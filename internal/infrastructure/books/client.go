// Package books resolves cover images through the Google Books metadata
// API with an Open Library high-resolution upgrade when an ISBN is known.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CuratorHub/internal/ports"
)

const (
	defaultVolumesURL = "https://www.googleapis.com/books/v1/volumes"
	defaultCoversURL  = "https://covers.openlibrary.org"
)

// Client queries book metadata services for cover images.
type Client struct {
	volumesURL string
	coversURL  string
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.CoverResolver = (*Client)(nil)

// NewClient creates a reusable HTTP client against the public endpoints.
func NewClient(client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		volumesURL: defaultVolumesURL,
		coversURL:  defaultCoversURL,
		client:     client,
		logger:     logger,
	}
}

type volumeInfo struct {
	Title               string `json:"title"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks map[string]string `json:"imageLinks"`
}

// Resolve looks the title up and returns the best cover URL found, or ""
// when the first result carries no usable image.
func (c *Client) Resolve(ctx context.Context, title string) (string, error) {
	volume, err := c.firstVolume(ctx, title)
	if err != nil {
		return "", err
	}
	if volume == nil {
		return "", nil
	}

	// Prefer the high-resolution cover service when an ISBN is present and
	// the cover actually exists.
	if isbn := pickISBN(*volume); isbn != "" {
		if cover := c.probeCover(ctx, isbn); cover != "" {
			return cover, nil
		}
	}

	return bestImageLink(volume.ImageLinks), nil
}

func (c *Client) firstVolume(ctx context.Context, title string) (*volumeInfo, error) {
	query := url.Values{}
	query.Set("q", "intitle:"+title)
	query.Set("maxResults", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.volumesURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("volumes returned %s", resp.Status)
	}

	var payload struct {
		Items []struct {
			VolumeInfo volumeInfo `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode volumes: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}

	return &payload.Items[0].VolumeInfo, nil
}

// probeCover issues a HEAD existence check against the cover service;
// default=false makes missing covers answer 404 instead of a placeholder.
func (c *Client) probeCover(ctx context.Context, isbn string) string {
	coverURL := fmt.Sprintf("%s/b/isbn/%s-L.jpg?default=false", c.coversURL, isbn)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, coverURL, nil)
	if err != nil {
		return ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.debug("cover probe failed", "isbn", isbn, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	return coverURL
}

func pickISBN(volume volumeInfo) string {
	var fallback string
	for _, ident := range volume.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_13":
			return ident.Identifier
		case "ISBN_10":
			fallback = ident.Identifier
		}
	}
	return fallback
}

// bestImageLink orders the metadata API's own links largest first and
// normalizes the winner.
func bestImageLink(links map[string]string) string {
	for _, key := range []string{"extraLarge", "large", "medium", "thumbnail", "smallThumbnail"} {
		if link, ok := links[key]; ok && link != "" {
			return normalizeCoverURL(link)
		}
	}
	return ""
}

// normalizeCoverURL forces https and strips the low-res page-curl flag.
func normalizeCoverURL(link string) string {
	link = strings.Replace(link, "http://", "https://", 1)
	link = strings.ReplaceAll(link, "&edge=curl", "")
	return link
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
