package enrich

import (
	"context"
	"fmt"

	"CuratorHub/internal/domain"
)

// Request carries all parameters required to enrich a submitted link.
type Request struct {
	URL string
	// Title is the user-entered title, if any. Book cover lookup is keyed
	// off it when the page itself yields nothing.
	Title string
	// APIKey optionally unlocks richer platform responses (YouTube Data API).
	APIKey string
}

// Metadata is the best-effort result of enrichment. Empty fields mean the
// corresponding lookup failed; enrichment never blocks a submission.
type Metadata struct {
	Title       string
	ImageURL    string
	Description string
	// PageText is the capped body text of the fetched page, reused as AI
	// generator input so the page is fetched once.
	PageText string
	// NeedsAPIKey signals that the description could not be scraped and a
	// platform API key would unlock a retry.
	NeedsAPIKey bool
}

// Enricher captures a single per-resource-type strategy (article, video, book).
type Enricher interface {
	Type() domain.ResourceType
	Enrich(ctx context.Context, req Request) (Metadata, error)
}

// Registry keeps a mapping from resource types to their enrichers.
type Registry struct {
	enrichers map[domain.ResourceType]Enricher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{enrichers: map[domain.ResourceType]Enricher{}}
}

// Register adds or replaces an enricher implementation.
func (r *Registry) Register(e Enricher) {
	if r.enrichers == nil {
		r.enrichers = map[domain.ResourceType]Enricher{}
	}
	r.enrichers[e.Type()] = e
}

// Resolve returns an enricher by resource type or an error if it is absent.
func (r *Registry) Resolve(t domain.ResourceType) (Enricher, error) {
	if e, ok := r.enrichers[t]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("no enricher registered for type %s", t)
}
