package ports

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CuratorHub/internal/domain"
)

// ErrNotFound is returned by repositories when the requested record is absent.
var ErrNotFound = errors.New("not found")

// ArticleRepository persists curated articles, active and trashed alike.
type ArticleRepository interface {
	Get(ctx context.Context, id string) (domain.Article, error)
	List(ctx context.Context, deleted bool) ([]domain.Article, error)
	Put(ctx context.Context, article domain.Article) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists reader profiles and their saved/read lists.
type UserRepository interface {
	Get(ctx context.Context, id string) (domain.User, error)
	GetByName(ctx context.Context, name string) (domain.User, error)
	Put(ctx context.Context, user domain.User) error
	// RemoveArticleRefs strips the article ID from every user's saved and
	// read lists. Called when an article is permanently deleted.
	RemoveArticleRefs(ctx context.Context, articleID string) error
}

// PageFetcher retrieves a remote page as a parsed document through relay
// endpoints. Exhausting every relay yields (nil, nil), never an error.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// CoverResolver looks up a book cover image URL by title.
type CoverResolver interface {
	Resolve(ctx context.Context, title string) (string, error)
}

// ContentGenerator produces editorial fields for a submission via an LLM.
// It never fails: on any error it returns a deterministic fallback result.
type ContentGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) domain.GeneratedContent
}

// Notifier announces newly published articles to an external channel.
type Notifier interface {
	Announce(ctx context.Context, article domain.Article) error
}

// Scheduler controls when background jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
