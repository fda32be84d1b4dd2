package domain

import (
	"encoding/json"
	"net/url"
	"strings"
)

// DefaultConfidenceThreshold is applied when a request does not specify a
// minimum confidence threshold.
const DefaultConfidenceThreshold = 0.6

// SearchResult is a single raw result returned by a search backend. It is
// transient: produced by the search orchestrator and consumed by the ranker,
// never persisted.
type SearchResult struct {
	// URL is the raw result address as reported by the backend.
	URL string `json:"url"`
	// Title is the page title reported by the backend.
	Title string `json:"title"`
	// Snippet is a short result description reported by the backend.
	Snippet string `json:"snippet"`
	// Backend identifies which search backend produced the result.
	Backend string `json:"backend"`
}

// RankedCandidate is a SearchResult that has been placed in a relevance order
// for one category. Rank is 1-based; RankingConfidence reflects the judge's
// certainty about the ordering and lies in [0,1].
type RankedCandidate struct {
	SearchResult

	Rank              int     `json:"rank"`
	RankingConfidence float64 `json:"ranking_confidence"`
}

// BrandValidation is the outcome of the brand-recognition gate. It is
// computed once per request; when Recognized is false no category pipeline
// runs and the request yields zero candidates.
type BrandValidation struct {
	Recognized bool    `json:"brand_recognized"`
	Confidence float64 `json:"brand_confidence"`
	Reason     string  `json:"reason,omitempty"`
	// LLMUsed names the provider that produced the judgment.
	LLMUsed string `json:"llm_used,omitempty"`
}

// SelectedURL is the single candidate chosen for a category together with
// the selection confidence in [0,1].
type SelectedURL struct {
	Candidate  RankedCandidate `json:"candidate"`
	Confidence float64         `json:"confidence"`
	LLMUsed    string          `json:"llm_used,omitempty"`
}

// ConfidenceBundle carries the three per-layer confidences plus the derived
// overall value. Overall is always min(brand, ranking, selection) and is
// recomputed at construction, never mutated independently.
type ConfidenceBundle struct {
	Brand     float64 `json:"brand"`
	Ranking   float64 `json:"ranking"`
	Selection float64 `json:"selection"`
	Overall   float64 `json:"overall"`
}

// NewConfidenceBundle derives the overall confidence from the three layer
// confidences.
func NewConfidenceBundle(brand, ranking, selection float64) ConfidenceBundle {
	overall := brand
	if ranking < overall {
		overall = ranking
	}
	if selection < overall {
		overall = selection
	}

	return ConfidenceBundle{
		Brand:     brand,
		Ranking:   ranking,
		Selection: selection,
		Overall:   overall,
	}
}

// DiscoveredURL is the final output unit for one category. It is created only
// when the overall confidence meets the applied threshold; rejected
// candidates are discarded, not stored.
type DiscoveredURL struct {
	Category Category `json:"category"`
	URL      string   `json:"url"`
	Title    string   `json:"title,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`

	Confidence ConfidenceBundle `json:"confidence"`
	// RankingLLM and SelectionLLM name the providers that serviced the
	// ranking and selection judgments, for auditability.
	RankingLLM   string `json:"ranking_llm"`
	SelectionLLM string `json:"llm_used"`
	// Threshold is the minimum confidence that was applied when accepting
	// this URL.
	Threshold float64 `json:"threshold"`
}

// DiscoveryRequest describes one discovery invocation. It is owned
// exclusively by a single pipeline run; apart from category canonicalization
// during Validate it is never mutated.
type DiscoveryRequest struct {
	// Name is the entity (company/brand) name. Required.
	Name string `json:"name"`
	// BaseDomain is the entity's own site authority, e.g. "acme.com". Required.
	BaseDomain string `json:"base_domain"`
	// Categories is the non-empty set of page categories to discover.
	Categories []Category `json:"categories"`
	// RankingProvider and SelectionProvider select the preferred LM provider
	// for the ranking and selection judgments. Empty means the configured
	// default order.
	RankingProvider   string `json:"ranking_llm,omitempty"`
	SelectionProvider string `json:"selection_llm,omitempty"`
	// MinConfidence is the acceptance threshold in [0,1]. Nil means
	// DefaultConfidenceThreshold; an explicit zero accepts every candidate.
	MinConfidence *float64 `json:"min_confidence_threshold,omitempty"`
	// AllowPartial preserves already-completed category results when the
	// request is cancelled mid-flight. By default a cancelled request
	// returns no result.
	AllowPartial bool `json:"allow_partial,omitempty"`
}

// Threshold returns the effective acceptance threshold for the request.
func (r DiscoveryRequest) Threshold() float64 {
	if r.MinConfidence == nil {
		return DefaultConfidenceThreshold
	}

	return *r.MinConfidence
}

// Validate checks the request invariants and rewrites category tags to their
// canonical lowercase form in place. A request failing validation is rejected
// before any external call is made.
func (r DiscoveryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if !validAuthority(r.BaseDomain) {
		return ErrBadDomain
	}
	if len(r.Categories) == 0 {
		return ErrNoCategories
	}
	for i, c := range r.Categories {
		canonical, err := ParseCategory(string(c))
		if err != nil {
			return err
		}
		r.Categories[i] = canonical
	}
	if r.MinConfidence != nil && (*r.MinConfidence < 0 || *r.MinConfidence > 1) {
		return ErrBadThreshold
	}

	return nil
}

// validAuthority reports whether s is a well-formed URL authority (host,
// optionally with port), without scheme or path.
func validAuthority(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " /@?#") {
		return false
	}
	u, err := url.Parse("https://" + s)
	if err != nil {
		return false
	}

	return u.Host == s && strings.Contains(u.Hostname(), ".")
}

// DiscoveryResult is the terminal output of one pipeline run: at most one
// DiscoveredURL per requested category, plus the brand validation that gated
// the run. On the wire the brand fields sit at the top level next to the
// result map rather than under a nested object.
type DiscoveryResult struct {
	Brand   BrandValidation
	Results map[Category]DiscoveredURL
}

// wireDiscoveryResult is the serialized form of DiscoveryResult.
type wireDiscoveryResult struct {
	BrandValidation

	Results map[Category]DiscoveredURL `json:"results"`
}

// MarshalJSON implements json.Marshaler, flattening Brand into the top level.
func (r DiscoveryResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireDiscoveryResult{
		BrandValidation: r.Brand,
		Results:         r.Results,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *DiscoveryResult) UnmarshalJSON(data []byte) error {
	var w wireDiscoveryResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Brand = w.BrandValidation
	r.Results = w.Results

	return nil
}
