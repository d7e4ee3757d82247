// Package storage persists articles and users in SQLite. Use ":memory:"
// as the path for an in-memory database (useful for testing).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/ports"
)

// Store owns the database handle shared by the per-entity repositories.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Articles returns the article repository backed by this store.
func (s *Store) Articles() *ArticleStore {
	return &ArticleStore{db: s.db}
}

// Users returns the user repository backed by this store.
func (s *Store) Users() *UserStore {
	return &UserStore{db: s.db}
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT,
		url TEXT NOT NULL,
		image_url TEXT,
		category TEXT NOT NULL,
		type TEXT NOT NULL,
		date TEXT,
		author TEXT,
		content TEXT,
		key_points TEXT,
		conclusion TEXT,
		is_featured INTEGER DEFAULT 0,
		is_deleted INTEGER DEFAULT 0,
		created_at INTEGER NOT NULL,
		deleted_at INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		avatar TEXT,
		role TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_articles (
		user_id TEXT NOT NULL,
		article_id TEXT NOT NULL,
		relation TEXT NOT NULL,
		PRIMARY KEY (user_id, article_id, relation),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_articles_deleted ON articles(is_deleted, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_user_articles_article ON user_articles(article_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

var articleColumns = []string{
	"id", "title", "summary", "url", "image_url", "category", "type",
	"date", "author", "content", "key_points", "conclusion",
	"is_featured", "is_deleted", "created_at", "deleted_at",
}

// ArticleStore implements ports.ArticleRepository on SQLite.
type ArticleStore struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*ArticleStore)(nil)

// Get loads one article by ID.
func (r *ArticleStore) Get(ctx context.Context, id string) (domain.Article, error) {
	query, args, err := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build query: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("query article: %w", err)
	}
	return article, nil
}

// List returns the active or trashed articles, most recent first.
func (r *ArticleStore) List(ctx context.Context, deleted bool) ([]domain.Article, error) {
	query, args, err := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"is_deleted": deleted}).
		OrderBy("created_at DESC", "rowid DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// Put upserts the article snapshot.
func (r *ArticleStore) Put(ctx context.Context, a domain.Article) error {
	var deletedAt int64
	if !a.DeletedAt.IsZero() {
		deletedAt = a.DeletedAt.UnixNano()
	}

	query, args, err := sq.Insert("articles").
		Options("OR REPLACE").
		Columns(articleColumns...).
		Values(
			a.ID, a.Title, a.Summary, a.URL, a.ImageURL, string(a.Category),
			string(a.Type), a.Date, a.Author, a.Content, a.KeyPoints,
			a.Conclusion, a.IsFeatured, a.IsDeleted, a.CreatedAt.UnixNano(),
			deletedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}
	return nil
}

// Delete permanently erases the article row. Absent IDs are a no-op.
func (r *ArticleStore) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		a         domain.Article
		category  string
		kind      string
		createdAt int64
		deletedAt int64
	)

	err := row.Scan(
		&a.ID, &a.Title, &a.Summary, &a.URL, &a.ImageURL, &category, &kind,
		&a.Date, &a.Author, &a.Content, &a.KeyPoints, &a.Conclusion,
		&a.IsFeatured, &a.IsDeleted, &createdAt, &deletedAt,
	)
	if err != nil {
		return domain.Article{}, err
	}

	a.Category = domain.Category(category)
	a.Type = domain.ResourceType(kind)
	a.CreatedAt = time.Unix(0, createdAt).UTC()
	if deletedAt > 0 {
		a.DeletedAt = time.Unix(0, deletedAt).UTC()
	}
	return a, nil
}

const (
	relationSaved = "saved"
	relationRead  = "read"
)

// UserStore implements ports.UserRepository on SQLite.
type UserStore struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserStore)(nil)

// Get loads one user by ID, including saved and read lists.
func (r *UserStore) Get(ctx context.Context, id string) (domain.User, error) {
	return r.getWhere(ctx, sq.Eq{"id": id})
}

// GetByName loads one user by name, including saved and read lists.
func (r *UserStore) GetByName(ctx context.Context, name string) (domain.User, error) {
	return r.getWhere(ctx, sq.Eq{"name": name})
}

func (r *UserStore) getWhere(ctx context.Context, cond sq.Eq) (domain.User, error) {
	query, args, err := sq.Select("id", "name", "avatar", "role").
		From("users").
		Where(cond).
		ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("build query: %w", err)
	}

	var (
		u    domain.User
		role string
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Avatar, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("query user: %w", err)
	}
	u.Role = domain.Role(role)

	if err := r.loadRelations(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *UserStore) loadRelations(ctx context.Context, u *domain.User) error {
	query, args, err := sq.Select("article_id", "relation").
		From("user_articles").
		Where(sq.Eq{"user_id": u.ID}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID, relation string
		if err := rows.Scan(&articleID, &relation); err != nil {
			return fmt.Errorf("scan relation: %w", err)
		}
		switch relation {
		case relationSaved:
			u.SavedArticleIDs = append(u.SavedArticleIDs, articleID)
		case relationRead:
			u.ReadArticleIDs = append(u.ReadArticleIDs, articleID)
		}
	}
	return rows.Err()
}

// Put upserts the user profile and replaces the saved/read lists.
func (r *UserStore) Put(ctx context.Context, u domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Insert("users").
		Options("OR REPLACE").
		Columns("id", "name", "avatar", "role").
		Values(u.ID, u.Name, u.Avatar, string(u.Role)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	query, args, err = sq.Delete("user_articles").Where(sq.Eq{"user_id": u.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear relations: %w", err)
	}

	if len(u.SavedArticleIDs)+len(u.ReadArticleIDs) > 0 {
		insert := sq.Insert("user_articles").Columns("user_id", "article_id", "relation")
		for _, id := range u.SavedArticleIDs {
			insert = insert.Values(u.ID, id, relationSaved)
		}
		for _, id := range u.ReadArticleIDs {
			insert = insert.Values(u.ID, id, relationRead)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert relations: %w", err)
		}
	}

	return tx.Commit()
}

// RemoveArticleRefs strips the article from every user's saved/read lists.
func (r *UserStore) RemoveArticleRefs(ctx context.Context, articleID string) error {
	query, args, err := sq.Delete("user_articles").Where(sq.Eq{"article_id": articleID}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove article refs: %w", err)
	}
	return nil
}
