package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/enrich"
	"CuratorHub/internal/ports"
)

// SubmitRequest carries everything a reader provides when sharing a link.
// Only URL and Type are mandatory up front; the rest is auto-filled by
// enrichment and AI backfill where possible.
type SubmitRequest struct {
	URL         string
	Type        domain.ResourceType
	Title       string
	Description string
	Category    domain.Category
	Author      string
	APIKey      string
}

// IntakeDeps wires all driven adapters into the submission workflow.
type IntakeDeps struct {
	Enrichers *enrich.Registry
	Generator ports.ContentGenerator
	Library   *Library
	Notifier  ports.Notifier
	// DefaultAPIKey is the configured platform key applied to submissions
	// that do not carry their own.
	DefaultAPIKey string
	Logger        *slog.Logger
}

// Intake implements the end-to-end submission workflow: best-effort
// enrichment, AI backfill of blank editorial fields, then persistence.
// A submission is never blocked by a failed auto-fill step.
type Intake struct {
	enrichers     *enrich.Registry
	generator     ports.ContentGenerator
	library       *Library
	notifier      ports.Notifier
	defaultAPIKey string
	logger        *slog.Logger
}

// NewIntake constructs the submission workflow.
func NewIntake(deps IntakeDeps) *Intake {
	return &Intake{
		enrichers:     deps.Enrichers,
		generator:     deps.Generator,
		library:       deps.Library,
		notifier:      deps.Notifier,
		defaultAPIKey: deps.DefaultAPIKey,
		logger:        deps.Logger,
	}
}

// Submit enriches, backfills and persists one submission.
func (i *Intake) Submit(ctx context.Context, req SubmitRequest) (domain.Article, error) {
	if !validURL(req.URL) {
		return domain.Article{}, fmt.Errorf("%w: malformed url %q", ErrValidation, req.URL)
	}

	meta := i.enrichMetadata(ctx, req)

	title := req.Title
	if title == "" {
		title = meta.Title
	}
	if title == "" {
		return domain.Article{}, fmt.Errorf("%w: title required", ErrValidation)
	}

	description := req.Description
	if description == "" {
		description = meta.Description
	}

	article := domain.Article{
		Title:    title,
		Summary:  description,
		URL:      req.URL,
		ImageURL: meta.ImageURL,
		Category: req.Category,
		Type:     req.Type,
		Author:   authorOrGuest(req.Author),
	}

	i.backfill(ctx, &article, description, meta.PageText)

	article, err := i.library.Add(ctx, article)
	if err != nil {
		return domain.Article{}, err
	}

	i.announce(ctx, article)
	return article, nil
}

// enrichMetadata runs the per-type enricher; every failure degrades to
// empty metadata.
func (i *Intake) enrichMetadata(ctx context.Context, req SubmitRequest) enrich.Metadata {
	if i.enrichers == nil {
		return enrich.Metadata{}
	}

	enricher, err := i.enrichers.Resolve(req.Type)
	if err != nil {
		i.debug("no enricher", "type", req.Type)
		return enrich.Metadata{}
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = i.defaultAPIKey
	}

	meta, err := enricher.Enrich(ctx, enrich.Request{
		URL:    req.URL,
		Title:  req.Title,
		APIKey: apiKey,
	})
	if err != nil {
		i.debug("enrichment failed", "url", req.URL, "error", err)
		return enrich.Metadata{}
	}
	return meta
}

// backfill fills blank editorial fields with one AI call. The generator
// never fails; in the worst case the fields come from the deterministic
// fallback built on the user's description.
func (i *Intake) backfill(ctx context.Context, article *domain.Article, description, pageText string) {
	complete := article.Summary != "" &&
		article.Content != "" &&
		article.KeyPoints != "" &&
		article.Conclusion != "" &&
		domain.ValidCategory(article.Category)
	if complete || i.generator == nil {
		if !domain.ValidCategory(article.Category) {
			article.Category = domain.DefaultCategory
		}
		return
	}

	generated := i.generator.Generate(ctx, domain.GenerationRequest{
		Title:       article.Title,
		Description: description,
		Type:        article.Type,
		URL:         article.URL,
		PageText:    pageText,
	})

	if article.Summary == "" {
		article.Summary = generated.Summary
	}
	if article.Content == "" {
		article.Content = generated.Content
	}
	if article.KeyPoints == "" {
		article.KeyPoints = generated.KeyPoints
	}
	if article.Conclusion == "" {
		article.Conclusion = generated.Conclusion
	}
	if !domain.ValidCategory(article.Category) {
		article.Category = generated.Category
	}
}

// announce notifies the configured channel; failures never block the
// submission.
func (i *Intake) announce(ctx context.Context, article domain.Article) {
	if i.notifier == nil {
		return
	}
	if err := i.notifier.Announce(ctx, article); err != nil {
		i.debug("announce failed", "article", article.ID, "error", err)
	}
}

func authorOrGuest(author string) string {
	if author == "" {
		return "Guest User"
	}
	return author
}

func (i *Intake) debug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}
