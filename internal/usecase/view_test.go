package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CuratorHub/internal/domain"
)

func catalog() []domain.Article {
	// Most recent first, as the repository returns them.
	return []domain.Article{
		{ID: "book2", Title: "Book Two", Category: domain.CategoryBusiness, Type: domain.TypeBook},
		{ID: "video1", Title: "Video One", Category: domain.CategoryTech, Type: domain.TypeYouTube},
		{ID: "design1", Title: "Design One", Category: domain.CategoryDesign, Type: domain.TypeArticle},
		{ID: "life1", Title: "Life One", Category: domain.CategoryLifestyle, Type: domain.TypeArticle},
		{ID: "book1", Title: "Book One", Category: domain.CategoryTech, Type: domain.TypeBook},
		{ID: "sci1", Title: "Science One", Category: domain.CategoryScience, Type: domain.TypeArticle},
		{ID: "biz1", Title: "Business One", Category: domain.CategoryBusiness, Type: domain.TypeArticle},
	}
}

func ids(articles []domain.Article) []string {
	var out []string
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}

func TestFilterArticles_Latest(t *testing.T) {
	got := FilterArticles(catalog(), domain.TabLatest, domain.FilterAll)
	assert.Equal(t, []string{"book2", "video1", "design1", "life1", "book1", "sci1", "biz1"}, ids(got))
}

func TestFilterArticles_TechIncludesScienceExcludesBooks(t *testing.T) {
	got := FilterArticles(catalog(), domain.TabTech, domain.FilterAll)
	// book1 is categorized Tech but books never appear outside LATEST/BOOKS.
	assert.Equal(t, []string{"video1", "sci1"}, ids(got))
}

func TestFilterArticles_DesignIncludesLifestyle(t *testing.T) {
	got := FilterArticles(catalog(), domain.TabDesign, domain.FilterAll)
	assert.Equal(t, []string{"design1", "life1"}, ids(got))
}

func TestFilterArticles_BooksFiltersByType(t *testing.T) {
	got := FilterArticles(catalog(), domain.TabBooks, domain.FilterAll)
	assert.Equal(t, []string{"book2", "book1"}, ids(got))
}

func TestFilterArticles_Subcategory(t *testing.T) {
	got := FilterArticles(catalog(), domain.TabTech, domain.CategoryScience)
	assert.Equal(t, []string{"sci1"}, ids(got))

	// Subcategory also narrows the BOOKS tab.
	got = FilterArticles(catalog(), domain.TabBooks, domain.CategoryTech)
	assert.Equal(t, []string{"book1"}, ids(got))
}

func TestBuildView_HeroIsFirstNonBook(t *testing.T) {
	view := BuildView(catalog(), domain.TabLatest, domain.FilterAll)

	require.NotNil(t, view.Hero)
	// book2 is newest but books never take the hero slot.
	assert.Equal(t, "video1", view.Hero.ID)
	assert.NotContains(t, ids(view.Items), "video1")
	assert.Contains(t, ids(view.Items), "book2")
}

func TestBuildView_BooksTabHasNoHero(t *testing.T) {
	view := BuildView(catalog(), domain.TabBooks, domain.FilterAll)

	assert.Nil(t, view.Hero)
	assert.Equal(t, []string{"book2", "book1"}, ids(view.Items))
}

func TestBuildView_GroupsByType(t *testing.T) {
	view := BuildView(catalog(), domain.TabLatest, domain.FilterAll)

	assert.Equal(t, []string{"book2", "book1"}, ids(view.Groups[domain.TypeBook]))
	assert.Equal(t, []string{"design1", "life1", "sci1", "biz1"}, ids(view.Groups[domain.TypeArticle]))
	// The hero is excluded from the groups along with the grid.
	assert.Empty(t, view.Groups[domain.TypeYouTube])
}

func TestBuildView_EmptyInput(t *testing.T) {
	view := BuildView(nil, domain.TabLatest, domain.FilterAll)

	assert.Nil(t, view.Hero)
	assert.Empty(t, view.Items)
	assert.Empty(t, view.Groups)
}
