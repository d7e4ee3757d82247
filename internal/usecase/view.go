package usecase

import (
	"CuratorHub/internal/domain"
)

// View is the display arrangement of a filtered article list: an optional
// hero slot, the remaining grid items, and the items grouped by type.
type View struct {
	Hero   *domain.Article
	Items  []domain.Article
	Groups map[domain.ResourceType][]domain.Article
}

// FilterArticles restricts articles to a top-level tab and an optional
// subcategory. The BOOKS tab filters by resource type instead of category;
// books are excluded from every other tab except LATEST.
func FilterArticles(articles []domain.Article, tab domain.Tab, sub domain.Category) []domain.Article {
	allowed := map[domain.Category]bool{}
	for _, c := range domain.TabCategories(tab) {
		allowed[c] = true
	}

	var filtered []domain.Article
	for _, article := range articles {
		if tab == domain.TabBooks {
			if article.Type != domain.TypeBook {
				continue
			}
		} else {
			if !allowed[article.Category] {
				continue
			}
			if article.Type == domain.TypeBook && tab != domain.TabLatest {
				continue
			}
		}
		if sub != domain.FilterAll && article.Category != sub {
			continue
		}
		filtered = append(filtered, article)
	}
	return filtered
}

// BuildView filters the articles and promotes the most recent non-book
// item to the hero slot (outside the BOOKS tab). The input must already be
// ordered most-recent-first.
func BuildView(articles []domain.Article, tab domain.Tab, sub domain.Category) View {
	filtered := FilterArticles(articles, tab, sub)

	view := View{
		Groups: map[domain.ResourceType][]domain.Article{},
	}

	if tab != domain.TabBooks {
		for i := range filtered {
			if filtered[i].Type != domain.TypeBook {
				hero := filtered[i]
				view.Hero = &hero
				break
			}
		}
	}

	for _, article := range filtered {
		if view.Hero != nil && article.ID == view.Hero.ID {
			continue
		}
		view.Items = append(view.Items, article)
		view.Groups[article.Type] = append(view.Groups[article.Type], article)
	}

	return view
}
