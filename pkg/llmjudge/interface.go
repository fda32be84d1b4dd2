// Package llmjudge defines the language-model judge abstraction used by the
// discovery pipeline: a structured prompt per judging role, a provider client
// interface with a closed failure classification, and the judgment schemas
// every provider must produce.
package llmjudge

import "context"

// Role identifies which judgment a prompt asks for.
type Role string

const (
	// RoleBrand asks whether the entity is a real, well-known subject.
	RoleBrand Role = "brand"
	// RoleRanking asks for a relevance ordering of candidates.
	RoleRanking Role = "ranking"
	// RoleSelection asks for the single best candidate.
	RoleSelection Role = "selection"
)

// Candidate is one search result presented to a judge.
type Candidate struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Prompt is the structured context for one judgment. Providers render it to
// text; the deterministic pattern judge reads the fields directly.
type Prompt struct {
	Role     Role
	Entity   string
	Domain   string
	Category string
	// Candidates is set for ranking and selection prompts.
	Candidates []Candidate
}

// Client executes one structured prompt against a language-model provider and
// returns the raw completion text.
//
// Implementations must classify failures with the serrors provider kinds:
// ErrQuotaExceeded, ErrRateLimited, ErrTransport or ErrMalformed, so the
// fallback router can branch on them. Implementations must be safe for
// concurrent use.
//
//go:generate mockgen -package mockllmjudge -source=interface.go -destination=mock/mockllmjudge.go *
type Client interface {
	// Name returns the provider identifier reported as llm_used.
	Name() string
	// Complete executes the prompt and returns the raw completion text.
	Complete(ctx context.Context, p Prompt) (string, error)
}
