package extract

import (
	"context"
	"log/slog"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/enrich"
	"CuratorHub/internal/ports"
)

// pageTextLimit caps scraped text passed downstream to the AI generator.
const pageTextLimit = 15000

// ArticleEnricher resolves title and cover image for generic article links
// by fetching the page through the relay chain.
type ArticleEnricher struct {
	fetcher ports.PageFetcher
	logger  *slog.Logger
}

var _ enrich.Enricher = (*ArticleEnricher)(nil)

// NewArticleEnricher wires the page fetcher.
func NewArticleEnricher(fetcher ports.PageFetcher, logger *slog.Logger) *ArticleEnricher {
	return &ArticleEnricher{fetcher: fetcher, logger: logger}
}

// Type identifies the strategy inside the registry.
func (a *ArticleEnricher) Type() domain.ResourceType {
	return domain.TypeArticle
}

// Enrich fetches the page once and extracts title, image, description and
// the capped body text. A failed fetch yields empty metadata, never an error.
func (a *ArticleEnricher) Enrich(ctx context.Context, req enrich.Request) (enrich.Metadata, error) {
	doc, err := a.fetcher.Fetch(ctx, req.URL)
	if err != nil || doc == nil {
		a.debug("page fetch yielded nothing", "url", req.URL)
		return enrich.Metadata{}, nil
	}

	return enrich.Metadata{
		Title:       Title(doc),
		ImageURL:    Image(doc, req.URL),
		Description: Description(doc),
		PageText:    BodyText(doc, pageTextLimit),
	}, nil
}

func (a *ArticleEnricher) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
