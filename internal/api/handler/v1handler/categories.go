package v1handler

import (
	"net/http"

	"discovery/pkg/domain"
)

// CategoryInfo describes one supported discovery category.
type CategoryInfo struct {
	Name string `json:"name"`
	// Patterns are the URL keywords associated with the category, used by
	// the site-probe backend and the degraded pattern judge.
	Patterns []string `json:"patterns"`
}

// CategoryList is the response payload of the categories endpoint.
type CategoryList struct {
	Categories []CategoryInfo `json:"categories"`
}

// ListCategories returns the supported discovery categories with their URL
// patterns.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := domain.Categories()
	out := CategoryList{Categories: make([]CategoryInfo, 0, len(cats))}
	for _, c := range cats {
		out.Categories = append(out.Categories, CategoryInfo{
			Name:     string(c),
			Patterns: c.Patterns(),
		})
	}

	writeJSON(r.Context(), w, http.StatusOK, out)
}
