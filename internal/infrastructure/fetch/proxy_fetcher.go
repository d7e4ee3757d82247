package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CuratorHub/internal/config"
	"CuratorHub/internal/ports"
)

// ProxyFetcher retrieves remote pages through a sequence of public relay
// endpoints, tolerating any individual relay's failure. Exhausting the
// list yields (nil, nil); errors never propagate to callers.
type ProxyFetcher struct {
	proxies []config.ProxyConfig
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.PageFetcher = (*ProxyFetcher)(nil)

// NewProxyFetcher wires the relay list; client defaults to a plain http.Client.
func NewProxyFetcher(cfg config.FetcherConfig, client *http.Client, logger *slog.Logger) *ProxyFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &ProxyFetcher{
		proxies: cfg.Proxies,
		client:  client,
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

// Fetch tries each relay in order and returns the first parsed document.
func (f *ProxyFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	for _, proxy := range f.proxies {
		doc, err := f.fetchVia(ctx, proxy, pageURL)
		if err != nil {
			f.debug("relay failed", "relay", proxy.Name, "url", pageURL, "error", err)
			continue
		}
		if doc != nil {
			return doc, nil
		}
	}
	return nil, nil
}

func (f *ProxyFetcher) fetchVia(ctx context.Context, proxy config.ProxyConfig, pageURL string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	endpoint := fmt.Sprintf(proxy.URL, url.QueryEscape(pageURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "CuratorHub/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay returned %s", resp.Status)
	}

	var html string
	if proxy.Format == "json" {
		var wrapped struct {
			Contents string `json:"contents"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decode wrapped response: %w", err)
		}
		html = wrapped.Contents
	} else {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		html = string(raw)
	}

	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("relay returned empty body")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (f *ProxyFetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
