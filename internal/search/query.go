package search

import (
	"strings"

	"discovery/pkg/domain"
)

// defaultTemplates holds the built-in query template per category. The
// placeholders {name}, {site} and {category} are replaced when rendering.
var defaultTemplates = map[domain.Category]string{ //nolint: gochecknoglobals
	domain.CategoryPricing:  "{name} pricing",
	domain.CategoryFeatures: "{name} features",
	domain.CategoryBlog:     "{name} blog",
	domain.CategorySocial:   "{name} social media profiles",
	domain.CategoryAbout:    "{name} about company",
	domain.CategoryContact:  "{name} contact",
	domain.CategoryCareers:  "{name} careers",
	domain.CategoryDocs:     "{name} documentation",
}

// RenderQuery builds the category-specific query text for an entity. A
// template from overrides takes precedence over the built-in one; categories
// without any template fall back to "{name} {category}".
func RenderQuery(overrides map[domain.Category]string, name, site string, category domain.Category) string {
	tpl, ok := overrides[category]
	if !ok {
		tpl, ok = defaultTemplates[category]
	}
	if !ok {
		tpl = "{name} {category}"
	}

	r := strings.NewReplacer(
		"{name}", name,
		"{site}", site,
		"{category}", string(category),
	)

	return r.Replace(tpl)
}
