package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/ports"
)

// ErrForbidden marks mutations attempted by a non-owner, non-admin user.
var ErrForbidden = errors.New("forbidden")

// ErrValidation marks submissions rejected before any side effect.
var ErrValidation = errors.New("validation failed")

// Library implements the article collection workflow: publishing,
// soft-delete/trash, per-user save and read tracking.
type Library struct {
	articles ports.ArticleRepository
	users    ports.UserRepository
	logger   *slog.Logger
}

// NewLibrary wires the repositories.
func NewLibrary(articles ports.ArticleRepository, users ports.UserRepository, logger *slog.Logger) *Library {
	return &Library{articles: articles, users: users, logger: logger}
}

// Login fetches the user by name, auto-registering on first visit.
func (l *Library) Login(ctx context.Context, name string) (domain.User, error) {
	if name == "" {
		return domain.User{}, fmt.Errorf("%w: username required", ErrValidation)
	}

	user, err := l.users.GetByName(ctx, name)
	if errors.Is(err, ports.ErrNotFound) {
		user = domain.User{
			ID:     domain.NewID(),
			Name:   name,
			Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", url.QueryEscape(name)),
			Role:   domain.RoleUser,
		}
		if err := l.users.Put(ctx, user); err != nil {
			return domain.User{}, fmt.Errorf("register user: %w", err)
		}
		l.info("registered user", "name", name)
		return user, nil
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// SetRole updates a user's role, registering the name first if needed.
// Used by maintenance tooling.
func (l *Library) SetRole(ctx context.Context, name string, role domain.Role) (domain.User, error) {
	user, err := l.Login(ctx, name)
	if err != nil {
		return domain.User{}, err
	}
	if user.Role == role {
		return user, nil
	}

	user.Role = role
	if err := l.users.Put(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("persist user: %w", err)
	}
	return user, nil
}

// Add validates and persists a new article into the active list.
func (l *Library) Add(ctx context.Context, a domain.Article) (domain.Article, error) {
	if a.Title == "" {
		return domain.Article{}, fmt.Errorf("%w: title required", ErrValidation)
	}
	if !validURL(a.URL) {
		return domain.Article{}, fmt.Errorf("%w: malformed url %q", ErrValidation, a.URL)
	}
	if !domain.ValidCategory(a.Category) {
		return domain.Article{}, fmt.Errorf("%w: unknown category %q", ErrValidation, a.Category)
	}

	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = domain.NewID()
	}
	if a.Date == "" {
		a.Date = now.Format("2006-01-02")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.IsDeleted = false
	a.DeletedAt = time.Time{}

	if err := l.articles.Put(ctx, a); err != nil {
		return domain.Article{}, fmt.Errorf("persist article: %w", err)
	}
	return a, nil
}

// Update persists edits by the author or an admin. The trash state of the
// stored article is preserved.
func (l *Library) Update(ctx context.Context, actor domain.User, a domain.Article) error {
	existing, err := l.articles.Get(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}
	if !actor.CanModify(existing) {
		return fmt.Errorf("%w: %s may not edit %s", ErrForbidden, actor.Name, a.ID)
	}
	if a.Title == "" {
		return fmt.Errorf("%w: title required", ErrValidation)
	}
	if !validURL(a.URL) {
		return fmt.Errorf("%w: malformed url %q", ErrValidation, a.URL)
	}
	if !domain.ValidCategory(a.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, a.Category)
	}

	a.IsDeleted = existing.IsDeleted
	a.DeletedAt = existing.DeletedAt
	a.CreatedAt = existing.CreatedAt

	if err := l.articles.Put(ctx, a); err != nil {
		return fmt.Errorf("persist article: %w", err)
	}
	return nil
}

// SoftDelete moves the article from the active list to the trash.
// Trashing an already-trashed or absent article is a no-op.
func (l *Library) SoftDelete(ctx context.Context, id string) error {
	article, err := l.articles.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}
	if article.IsDeleted {
		return nil
	}

	article.IsDeleted = true
	article.DeletedAt = time.Now().UTC()
	if err := l.articles.Put(ctx, article); err != nil {
		return fmt.Errorf("persist article: %w", err)
	}
	return nil
}

// Restore moves the article from the trash back to the active list.
// Restoring an article not present in the trash is a no-op.
func (l *Library) Restore(ctx context.Context, id string) error {
	article, err := l.articles.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}
	if !article.IsDeleted {
		return nil
	}

	article.IsDeleted = false
	article.DeletedAt = time.Time{}
	if err := l.articles.Put(ctx, article); err != nil {
		return fmt.Errorf("persist article: %w", err)
	}
	return nil
}

// PermanentDelete erases the article and strips its ID from every user's
// saved/read lists. Deleting an absent ID is a no-op.
func (l *Library) PermanentDelete(ctx context.Context, id string) error {
	if _, err := l.articles.Get(ctx, id); errors.Is(err, ports.ErrNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("load article: %w", err)
	}

	if err := l.articles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if err := l.users.RemoveArticleRefs(ctx, id); err != nil {
		return fmt.Errorf("cascade user lists: %w", err)
	}
	return nil
}

// EmptyTrash permanently deletes every trashed article.
func (l *Library) EmptyTrash(ctx context.Context) error {
	trashed, err := l.articles.List(ctx, true)
	if err != nil {
		return fmt.Errorf("list trash: %w", err)
	}

	for _, article := range trashed {
		if err := l.PermanentDelete(ctx, article.ID); err != nil {
			return err
		}
	}
	return nil
}

// PurgeExpired permanently deletes trashed articles older than retention.
// Returns the number of articles purged.
func (l *Library) PurgeExpired(ctx context.Context, retention time.Duration) (int, error) {
	trashed, err := l.articles.List(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("list trash: %w", err)
	}

	cutoff := time.Now().UTC().Add(-retention)
	purged := 0
	for _, article := range trashed {
		if article.DeletedAt.IsZero() || article.DeletedAt.After(cutoff) {
			continue
		}
		if err := l.PermanentDelete(ctx, article.ID); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

// Active returns the active articles, most recent first.
func (l *Library) Active(ctx context.Context) ([]domain.Article, error) {
	return l.articles.List(ctx, false)
}

// Trash returns the trashed articles, most recent first.
func (l *Library) Trash(ctx context.Context) ([]domain.Article, error) {
	return l.articles.List(ctx, true)
}

// Get loads one article by ID.
func (l *Library) Get(ctx context.Context, id string) (domain.Article, error) {
	return l.articles.Get(ctx, id)
}

// ToggleSave flips the article's membership in the user's saved list and
// reports whether it is saved afterwards.
func (l *Library) ToggleSave(ctx context.Context, userID, articleID string) (bool, error) {
	if _, err := l.articles.Get(ctx, articleID); err != nil {
		return false, fmt.Errorf("load article: %w", err)
	}

	user, err := l.users.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}

	saved := user.ToggleSave(articleID)
	if err := l.users.Put(ctx, user); err != nil {
		return false, fmt.Errorf("persist user: %w", err)
	}
	return saved, nil
}

// MarkRead records the article as read for the user; repeated calls are
// no-ops.
func (l *Library) MarkRead(ctx context.Context, userID, articleID string) error {
	user, err := l.users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user.HasRead(articleID) {
		return nil
	}

	user.MarkRead(articleID)
	if err := l.users.Put(ctx, user); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// SavedArticles returns the user's saved articles that are still active,
// most recent first.
func (l *Library) SavedArticles(ctx context.Context, userID string) ([]domain.Article, error) {
	user, err := l.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	active, err := l.articles.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	var saved []domain.Article
	for _, article := range active {
		if user.HasSaved(article.ID) {
			saved = append(saved, article)
		}
	}
	return saved, nil
}

func validURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func (l *Library) info(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}
