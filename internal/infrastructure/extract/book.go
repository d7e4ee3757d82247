package extract

import (
	"context"
	"log/slog"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/enrich"
	"CuratorHub/internal/ports"
)

// BookEnricher resolves a title and cover image for book links. The cover
// lookup is keyed off the title (user-entered or just-fetched); when no
// cover is found it falls back to the Open Graph image of the source page.
type BookEnricher struct {
	covers  ports.CoverResolver
	fetcher ports.PageFetcher
	logger  *slog.Logger
}

var _ enrich.Enricher = (*BookEnricher)(nil)

// NewBookEnricher wires the cover resolver and the page fetcher fallback.
func NewBookEnricher(covers ports.CoverResolver, fetcher ports.PageFetcher, logger *slog.Logger) *BookEnricher {
	return &BookEnricher{covers: covers, fetcher: fetcher, logger: logger}
}

// Type identifies the strategy inside the registry.
func (b *BookEnricher) Type() domain.ResourceType {
	return domain.TypeBook
}

// Enrich fetches the source page for title/description, then resolves a
// cover by title. Every stage degrades silently.
func (b *BookEnricher) Enrich(ctx context.Context, req enrich.Request) (enrich.Metadata, error) {
	meta := enrich.Metadata{Title: req.Title}

	doc, err := b.fetcher.Fetch(ctx, req.URL)
	if err == nil && doc != nil {
		if meta.Title == "" {
			meta.Title = Title(doc)
		}
		meta.Description = Description(doc)
	}

	if meta.Title != "" && b.covers != nil {
		cover, err := b.covers.Resolve(ctx, meta.Title)
		if err != nil {
			b.debug("cover lookup failed", "title", meta.Title, "error", err)
		} else if cover != "" {
			meta.ImageURL = cover
		}
	}

	if meta.ImageURL == "" && doc != nil {
		meta.ImageURL = Image(doc, req.URL)
	}

	return meta, nil
}

func (b *BookEnricher) debug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}
