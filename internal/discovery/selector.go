package discovery

import (
	"context"

	"discovery/pkg/domain"
	"discovery/pkg/llmjudge"
)

// URLSelector picks the single best URL for a category out of the ranked
// candidates, using the provider chain.
type URLSelector struct {
	router *Router
}

// NewURLSelector constructs a URLSelector over the router.
func NewURLSelector(router *Router) *URLSelector {
	return &URLSelector{router: router}
}

// Select chooses one candidate from the ranked list, presented best first. A
// judge declaring no candidate suitable yields nil without error; the
// category then produces no result.
func (s *URLSelector) Select(ctx context.Context,
	preference, name, site string,
	category domain.Category,
	ranked []domain.RankedCandidate) (*domain.SelectedURL, error) {
	if len(ranked) == 0 {
		return nil, nil
	}

	candidates := make([]llmjudge.Candidate, 0, len(ranked))
	for _, rc := range ranked {
		candidates = append(candidates, llmjudge.Candidate{
			URL:     rc.URL,
			Title:   rc.Title,
			Snippet: rc.Snippet,
		})
	}

	prompt := llmjudge.Prompt{
		Role:       llmjudge.RoleSelection,
		Entity:     name,
		Domain:     site,
		Category:   string(category),
		Candidates: candidates,
	}

	var judgment llmjudge.SelectionJudgment
	used, err := s.router.Invoke(ctx, preference, prompt, func(raw string) error {
		parsed, err := llmjudge.ParseSelectionJudgment(raw, len(ranked))
		if err != nil {
			return err
		}
		judgment = parsed

		return nil
	})
	if err != nil {
		return nil, err
	}
	if !judgment.Suitable {
		return nil, nil
	}

	return &domain.SelectedURL{
		Candidate:  ranked[judgment.Choice-1],
		Confidence: judgment.Confidence,
		LLMUsed:    used,
	}, nil
}
