package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/enrich"
	"CuratorHub/internal/ports"
)

const (
	defaultNoembedURL  = "https://noembed.com/embed"
	defaultOEmbedURL   = "https://www.youtube.com/oembed"
	defaultDataAPIURL  = "https://www.googleapis.com/youtube/v3/videos"
	videoClientTimeout = 6 * time.Second
)

// VideoEnricher resolves title, thumbnail and description for video links.
// The thumbnail is deterministic from the video ID; the title comes from
// keyless oEmbed endpoints; the description comes from the Data API when a
// key is available, otherwise from scraping the watch page's meta tags.
type VideoEnricher struct {
	client     *http.Client
	fetcher    ports.PageFetcher
	noembedURL string
	oembedURL  string
	dataAPIURL string
	logger     *slog.Logger
}

var _ enrich.Enricher = (*VideoEnricher)(nil)

// NewVideoEnricher wires an HTTP client with default platform endpoints and
// an optional page fetcher for the keyless description scrape.
func NewVideoEnricher(client *http.Client, fetcher ports.PageFetcher, logger *slog.Logger) *VideoEnricher {
	if client == nil {
		client = &http.Client{Timeout: videoClientTimeout}
	}
	return &VideoEnricher{
		client:     client,
		fetcher:    fetcher,
		noembedURL: defaultNoembedURL,
		oembedURL:  defaultOEmbedURL,
		dataAPIURL: defaultDataAPIURL,
		logger:     logger,
	}
}

// Type identifies the strategy inside the registry.
func (v *VideoEnricher) Type() domain.ResourceType {
	return domain.TypeYouTube
}

// Enrich fetches the title and the keyed description concurrently; the
// thumbnail is built locally and succeeds regardless of network
// availability. When the description is still missing afterwards the watch
// page's meta tags are scraped before a key is asked for.
func (v *VideoEnricher) Enrich(ctx context.Context, req enrich.Request) (enrich.Metadata, error) {
	meta := enrich.Metadata{}

	videoID := VideoID(req.URL)
	if videoID != "" {
		meta.ImageURL = Thumbnail(videoID)
	}

	var (
		wg          sync.WaitGroup
		title       string
		description string
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		title = v.fetchTitle(ctx, req.URL)
	}()

	if videoID != "" && req.APIKey != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			description = v.fetchDescription(ctx, videoID, req.APIKey)
		}()
	}

	wg.Wait()

	if description == "" {
		description = v.scrapeDescription(ctx, req.URL)
	}

	meta.Title = title
	meta.Description = description
	meta.NeedsAPIKey = description == ""
	return meta, nil
}

// scrapeDescription loads the watch page through the relay chain and reads
// its meta description. Empty on any failure.
func (v *VideoEnricher) scrapeDescription(ctx context.Context, videoURL string) string {
	if v.fetcher == nil {
		return ""
	}

	doc, err := v.fetcher.Fetch(ctx, videoURL)
	if err != nil || doc == nil {
		v.debug("watch page fetch yielded nothing", "url", videoURL)
		return ""
	}
	return Description(doc)
}

// fetchTitle tries the keyless aggregator endpoint first, then the
// platform's own oEmbed, and gives up silently.
func (v *VideoEnricher) fetchTitle(ctx context.Context, videoURL string) string {
	for _, endpoint := range []string{v.noembedURL, v.oembedURL} {
		title, err := v.oembedTitle(ctx, endpoint, videoURL)
		if err != nil {
			v.debug("oembed lookup failed", "endpoint", endpoint, "error", err)
			continue
		}
		if title != "" {
			return title
		}
	}
	return ""
}

func (v *VideoEnricher) oembedTitle(ctx context.Context, endpoint, videoURL string) (string, error) {
	query := url.Values{}
	query.Set("url", videoURL)
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed returned %s", resp.Status)
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode oembed: %w", err)
	}

	return strings.TrimSpace(payload.Title), nil
}

// fetchDescription calls the platform Data API; only reachable when the
// user supplied a key.
func (v *VideoEnricher) fetchDescription(ctx context.Context, videoID, apiKey string) string {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("id", videoID)
	query.Set("key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.dataAPIURL+"?"+query.Encode(), nil)
	if err != nil {
		return ""
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.debug("data api request failed", "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.debug("data api returned error", "status", resp.Status)
		return ""
	}

	var payload struct {
		Items []struct {
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Items) == 0 {
		return ""
	}

	return strings.TrimSpace(payload.Items[0].Snippet.Description)
}

func (v *VideoEnricher) debug(msg string, args ...any) {
	if v.logger != nil {
		v.logger.Debug(msg, args...)
	}
}
