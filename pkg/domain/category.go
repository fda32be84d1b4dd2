package domain

import (
	"fmt"
	"strings"
)

// Category is an enumerated tag describing the kind of page sought for an
// entity, such as its pricing page or its blog.
type Category string

const (
	CategoryPricing  Category = "pricing"
	CategoryFeatures Category = "features"
	CategoryBlog     Category = "blog"
	CategorySocial   Category = "social"
	CategoryAbout    Category = "about"
	CategoryContact  Category = "contact"
	CategoryCareers  Category = "careers"
	CategoryDocs     Category = "docs"
)

// categoryPatterns maps each category to the URL/title keywords that are
// characteristic for it. The patterns drive the degraded pattern judge and
// the site-probe search backend.
var categoryPatterns = map[Category][]string{ //nolint: gochecknoglobals
	CategoryPricing:  {"pricing", "plans", "subscription", "cost", "price", "billing"},
	CategoryFeatures: {"features", "product", "capabilities", "functionality", "solutions"},
	CategoryBlog:     {"blog", "news", "articles", "insights", "resources"},
	CategorySocial:   {"twitter", "linkedin", "facebook", "instagram", "tiktok", "youtube"},
	CategoryAbout:    {"about", "company", "team", "story", "mission"},
	CategoryContact:  {"contact", "support", "help", "customer-service"},
	CategoryCareers:  {"careers", "jobs", "hiring", "work", "join"},
	CategoryDocs:     {"docs", "documentation", "api", "developer", "guide"},
}

// Categories returns all supported categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryPricing,
		CategoryFeatures,
		CategoryBlog,
		CategorySocial,
		CategoryAbout,
		CategoryContact,
		CategoryCareers,
		CategoryDocs,
	}
}

// ParseCategory converts a string tag into a Category. It is
// case-insensitive and returns an error for unknown tags.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryPatterns[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}

	return c, nil
}

// Patterns returns the characteristic URL/title keywords for the category.
// The returned slice must not be modified.
func (c Category) Patterns() []string {
	return categoryPatterns[c]
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }
