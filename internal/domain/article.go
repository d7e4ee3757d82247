package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResourceType distinguishes how a submitted link is enriched and displayed.
type ResourceType string

const (
	TypeArticle ResourceType = "ARTICLE"
	TypeYouTube ResourceType = "YOUTUBE"
	TypeBook    ResourceType = "BOOK"
)

// Category is the fixed editorial taxonomy articles are filed under.
type Category string

const (
	CategoryTech      Category = "Tech"
	CategoryDesign    Category = "Design"
	CategoryBusiness  Category = "Business"
	CategoryScience   Category = "Science"
	CategoryLifestyle Category = "Lifestyle"
)

// DefaultCategory is used whenever classification fails or is skipped.
const DefaultCategory = CategoryTech

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryTech,
		CategoryDesign,
		CategoryBusiness,
		CategoryScience,
		CategoryLifestyle,
	}
}

// ValidCategory reports whether c is a member of the fixed taxonomy.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Article is the core entity: a curated link plus enrichment metadata.
// An article is visible in exactly one of the active list or the trash,
// selected by IsDeleted.
type Article struct {
	ID         string
	Title      string
	Summary    string
	URL        string
	ImageURL   string
	Category   Category
	Type       ResourceType
	Date       string
	Author     string
	Content    string
	KeyPoints  string
	Conclusion string
	IsFeatured bool
	IsDeleted  bool
	CreatedAt  time.Time
	DeletedAt  time.Time
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// GenerationRequest carries everything the AI generator needs to produce
// editorial fields for a submission.
type GenerationRequest struct {
	Title       string
	Description string
	Type        ResourceType
	URL         string
	PageText    string
}

// GeneratedContent is the structured result of an AI call. Fallback marks
// results built deterministically after a failed or skipped AI call.
type GeneratedContent struct {
	Summary    string
	Category   Category
	Tags       []string
	Content    string
	KeyPoints  string
	Conclusion string
	Fallback   bool
}
