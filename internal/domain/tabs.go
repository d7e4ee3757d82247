package domain

// Tab is a top-level navigation directory. Each tab restricts the visible
// articles to a fixed subset of categories, except TabBooks which filters
// by resource type instead.
type Tab string

const (
	TabLatest   Tab = "LATEST"
	TabTech     Tab = "TECH"
	TabDesign   Tab = "DESIGN"
	TabBusiness Tab = "BUSINESS"
	TabBooks    Tab = "BOOKS"
)

// FilterAll is the pseudo-subcategory meaning "no sub-filter".
const FilterAll Category = "ALL"

// TabCategories returns the category subset shown under a tab.
func TabCategories(t Tab) []Category {
	switch t {
	case TabTech:
		return []Category{CategoryTech, CategoryScience}
	case TabDesign:
		return []Category{CategoryDesign, CategoryLifestyle}
	case TabBusiness:
		return []Category{CategoryBusiness}
	default:
		// TabLatest and TabBooks show every category.
		return Categories()
	}
}

// ValidTab reports whether t is a known top-level tab.
func ValidTab(t Tab) bool {
	switch t {
	case TabLatest, TabTech, TabDesign, TabBusiness, TabBooks:
		return true
	}
	return false
}
