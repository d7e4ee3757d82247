package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/infrastructure/storage"
	"CuratorHub/internal/ports"
)

func newLibrary(t *testing.T) *Library {
	t.Helper()
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewLibrary(store.Articles(), store.Users(), nil)
}

func addArticle(t *testing.T, l *Library, title string) domain.Article {
	t.Helper()
	article, err := l.Add(context.Background(), domain.Article{
		Title:    title,
		URL:      "https://example.com/" + title,
		Category: domain.CategoryTech,
		Type:     domain.TypeArticle,
	})
	require.NoError(t, err)
	return article
}

func TestLogin_AutoRegisters(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	user, err := l.Login(ctx, "morgan")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Contains(t, user.Avatar, "morgan")

	again, err := l.Login(ctx, "morgan")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestLogin_RequiresName(t *testing.T) {
	_, err := newLibrary(t).Login(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetRole_Promotes(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	user, err := l.SetRole(ctx, "admin", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	again, err := l.Login(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, again.Role)
}

func TestAdd_Validation(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	cases := []struct {
		name    string
		article domain.Article
	}{
		{"missing title", domain.Article{URL: "https://x.com/a", Category: domain.CategoryTech}},
		{"malformed url", domain.Article{Title: "t", URL: "not a url", Category: domain.CategoryTech}},
		{"relative url", domain.Article{Title: "t", URL: "/relative", Category: domain.CategoryTech}},
		{"unknown category", domain.Article{Title: "t", URL: "https://x.com/a", Category: "Gardening"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Add(ctx, tc.article)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAdd_FillsDefaults(t *testing.T) {
	article := addArticle(t, newLibrary(t), "first")

	assert.NotEmpty(t, article.ID)
	assert.NotEmpty(t, article.Date)
	assert.False(t, article.CreatedAt.IsZero())
	assert.False(t, article.IsDeleted)
}

func TestUpdate_OwnershipCheck(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	article, err := l.Add(ctx, domain.Article{
		Title:    "owned",
		URL:      "https://example.com/owned",
		Category: domain.CategoryTech,
		Type:     domain.TypeArticle,
		Author:   "owner",
	})
	require.NoError(t, err)

	stranger := domain.User{Name: "stranger", Role: domain.RoleUser}
	article.Title = "hijacked"
	assert.ErrorIs(t, l.Update(ctx, stranger, article), ErrForbidden)

	owner := domain.User{Name: "owner", Role: domain.RoleUser}
	article.Title = "edited"
	require.NoError(t, l.Update(ctx, owner, article))

	got, err := l.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)

	admin := domain.User{Name: "root", Role: domain.RoleAdmin}
	article.Title = "moderated"
	require.NoError(t, l.Update(ctx, admin, article))
}

func TestUpdate_Validation(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	article := addArticle(t, l, "a")
	admin := domain.User{Name: "root", Role: domain.RoleAdmin}

	blankTitle := article
	blankTitle.Title = ""
	assert.ErrorIs(t, l.Update(ctx, admin, blankTitle), ErrValidation)

	badURL := article
	badURL.URL = "not a url"
	assert.ErrorIs(t, l.Update(ctx, admin, badURL), ErrValidation)

	// The stored article is untouched by rejected edits.
	got, err := l.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.Title, got.Title)
	assert.Equal(t, article.URL, got.URL)
}

func TestUpdate_PreservesTrashStateAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	article := addArticle(t, l, "a")
	require.NoError(t, l.SoftDelete(ctx, article.ID))

	admin := domain.User{Name: "root", Role: domain.RoleAdmin}
	edit := article
	edit.Title = "edited in trash"
	edit.IsDeleted = false
	edit.CreatedAt = time.Time{}
	require.NoError(t, l.Update(ctx, admin, edit))

	got, err := l.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited in trash", got.Title)
	assert.True(t, got.IsDeleted)
	assert.True(t, article.CreatedAt.Equal(got.CreatedAt))
}

func TestSoftDeleteRestore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	article := addArticle(t, l, "a")

	require.NoError(t, l.SoftDelete(ctx, article.ID))
	active, err := l.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	trash, err := l.Trash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.False(t, trash[0].DeletedAt.IsZero())

	// Trashing again changes nothing.
	require.NoError(t, l.SoftDelete(ctx, article.ID))

	require.NoError(t, l.Restore(ctx, article.ID))
	active, err = l.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].DeletedAt.IsZero())

	// Restoring an article that is not in the trash is a no-op.
	require.NoError(t, l.Restore(ctx, article.ID))
	require.NoError(t, l.Restore(ctx, "missing"))
	require.NoError(t, l.SoftDelete(ctx, "missing"))
}

func TestPermanentDelete_CascadesToUserLists(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	doomed := addArticle(t, l, "doomed")
	kept := addArticle(t, l, "kept")

	saver, err := l.Login(ctx, "saver")
	require.NoError(t, err)
	_, err = l.ToggleSave(ctx, saver.ID, doomed.ID)
	require.NoError(t, err)
	_, err = l.ToggleSave(ctx, saver.ID, kept.ID)
	require.NoError(t, err)

	reader, err := l.Login(ctx, "reader")
	require.NoError(t, err)
	require.NoError(t, l.MarkRead(ctx, reader.ID, doomed.ID))

	bystander, err := l.Login(ctx, "bystander")
	require.NoError(t, err)
	_, err = l.ToggleSave(ctx, bystander.ID, kept.ID)
	require.NoError(t, err)

	require.NoError(t, l.PermanentDelete(ctx, doomed.ID))

	_, err = l.Get(ctx, doomed.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	saved, err := l.SavedArticles(ctx, saver.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, kept.ID, saved[0].ID)

	readerAfter, err := l.Login(ctx, "reader")
	require.NoError(t, err)
	assert.Empty(t, readerAfter.ReadArticleIDs)

	bystanderAfter, err := l.Login(ctx, "bystander")
	require.NoError(t, err)
	assert.Equal(t, []string{kept.ID}, bystanderAfter.SavedArticleIDs)

	// Deleting again is a no-op.
	require.NoError(t, l.PermanentDelete(ctx, doomed.ID))
}

func TestEmptyTrash(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	a := addArticle(t, l, "a")
	b := addArticle(t, l, "b")
	addArticle(t, l, "c")
	require.NoError(t, l.SoftDelete(ctx, a.ID))
	require.NoError(t, l.SoftDelete(ctx, b.ID))

	require.NoError(t, l.EmptyTrash(ctx))

	trash, err := l.Trash(ctx)
	require.NoError(t, err)
	assert.Empty(t, trash)

	active, err := l.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestPurgeExpired(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	expired := addArticle(t, l, "expired")
	require.NoError(t, l.SoftDelete(ctx, expired.ID))

	// Push the deletion timestamp past the retention window.
	stale, err := l.Get(ctx, expired.ID)
	require.NoError(t, err)
	stale.DeletedAt = time.Now().UTC().Add(-40 * 24 * time.Hour)
	require.NoError(t, l.articles.Put(ctx, stale))

	fresh := addArticle(t, l, "fresh")
	require.NoError(t, l.SoftDelete(ctx, fresh.ID))

	purged, err := l.PurgeExpired(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	trash, err := l.Trash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, fresh.ID, trash[0].ID)
}

func TestToggleSave_Parity(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	article := addArticle(t, l, "a")
	user, err := l.Login(ctx, "morgan")
	require.NoError(t, err)

	saved, err := l.ToggleSave(ctx, user.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = l.ToggleSave(ctx, user.ID, article.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	_, err = l.ToggleSave(ctx, user.ID, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMarkRead_Idempotent(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	article := addArticle(t, l, "a")
	user, err := l.Login(ctx, "morgan")
	require.NoError(t, err)

	require.NoError(t, l.MarkRead(ctx, user.ID, article.ID))
	require.NoError(t, l.MarkRead(ctx, user.ID, article.ID))

	after, err := l.Login(ctx, "morgan")
	require.NoError(t, err)
	assert.Equal(t, []string{article.ID}, after.ReadArticleIDs)
}

func TestSavedArticles_ExcludesTrashed(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)

	visible := addArticle(t, l, "visible")
	hidden := addArticle(t, l, "hidden")

	user, err := l.Login(ctx, "morgan")
	require.NoError(t, err)
	for _, id := range []string{visible.ID, hidden.ID} {
		_, err = l.ToggleSave(ctx, user.ID, id)
		require.NoError(t, err)
	}

	require.NoError(t, l.SoftDelete(ctx, hidden.ID))

	saved, err := l.SavedArticles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, visible.ID, saved[0].ID)
}
