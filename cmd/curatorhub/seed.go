package main

import (
	"context"
	"fmt"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/usecase"
)

// seed loads a small starter set so a fresh install is not empty.
func seed(ctx context.Context, library *usecase.Library) error {
	articles := []domain.Article{
		{
			Title:    "Spatial computing, one year in",
			Summary:  "A look at how headset platforms changed developer priorities over the last year.",
			URL:      "https://example.com/spatial-computing",
			ImageURL: "https://picsum.photos/800/600?random=1",
			Category: domain.CategoryTech,
			Type:     domain.TypeArticle,
			Author:   "Editorial Team",
		},
		{
			Title:    "The M4 iPad Pro review",
			Summary:  "Thinness, the tandem OLED display and whether the hardware outruns the software.",
			URL:      "https://www.youtube.com/watch?v=bs5BjuiaDeI",
			ImageURL: "https://img.youtube.com/vi/bs5BjuiaDeI/maxresdefault.jpg",
			Category: domain.CategoryTech,
			Type:     domain.TypeYouTube,
			Author:   "Editorial Team",
		},
		{
			Title:    "Minimalist layout principles for the modern web",
			Summary:  "Using negative space and typographic hierarchy to build interfaces that stay readable.",
			URL:      "https://example.com/minimalist-layout",
			ImageURL: "https://picsum.photos/800/600?random=2",
			Category: domain.CategoryDesign,
			Type:     domain.TypeArticle,
			Author:   "Editorial Team",
		},
		{
			Title:    "Atomic Habits",
			Summary:  "How tiny daily decisions compound into long-term outcomes.",
			URL:      "https://example.com/atomic-habits",
			ImageURL: "https://picsum.photos/800/600?random=3",
			Category: domain.CategoryLifestyle,
			Type:     domain.TypeBook,
			Author:   "Editorial Team",
		},
		{
			Title:    "Solid-state batteries reach the road",
			Summary:  "A progress report on energy density and what it means for electric range.",
			URL:      "https://example.com/solid-state",
			ImageURL: "https://picsum.photos/800/600?random=4",
			Category: domain.CategoryScience,
			Type:     domain.TypeArticle,
			Author:   "Editorial Team",
		},
		{
			Title:    "Global market outlook",
			Summary:  "Inflation, the AI build-out and what both mean for next year's business climate.",
			URL:      "https://example.com/market-outlook",
			ImageURL: "https://picsum.photos/800/600?random=5",
			Category: domain.CategoryBusiness,
			Type:     domain.TypeYouTube,
			Author:   "Editorial Team",
		},
	}

	for _, article := range articles {
		if _, err := library.Add(ctx, article); err != nil {
			return fmt.Errorf("seed %q: %w", article.Title, err)
		}
	}

	admin, err := library.SetRole(ctx, "admin", domain.RoleAdmin)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d articles, admin user %s\n", len(articles), admin.ID)
	return nil
}
