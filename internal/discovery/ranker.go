package discovery

import (
	"context"

	"discovery/pkg/domain"
	"discovery/pkg/llmjudge"
)

// URLRanker orders a category's candidate pool by relevance using the
// provider chain. The pool is capped at llmjudge.MaxRankedCandidates before
// prompting; backends already present their best results first, so the cap
// drops the tail.
type URLRanker struct {
	router *Router
}

// NewURLRanker constructs a URLRanker over the router.
func NewURLRanker(router *Router) *URLRanker {
	return &URLRanker{router: router}
}

// Rank orders the pool for one category. It returns the ranked candidates
// best first, plus the name of the provider that produced the ordering. An
// empty pool, or a judge declaring no candidate relevant, yields an empty
// slice without error; the category then produces no result.
//
// Every returned candidate carries the same RankingConfidence: the judge
// reports one certainty for the ordering as a whole, not one per entry.
func (r *URLRanker) Rank(ctx context.Context,
	preference, name, site string,
	category domain.Category,
	pool []domain.SearchResult) ([]domain.RankedCandidate, string, error) {
	if len(pool) == 0 {
		return nil, "", nil
	}
	if len(pool) > llmjudge.MaxRankedCandidates {
		pool = pool[:llmjudge.MaxRankedCandidates]
	}

	prompt := llmjudge.Prompt{
		Role:       llmjudge.RoleRanking,
		Entity:     name,
		Domain:     site,
		Category:   string(category),
		Candidates: toCandidates(pool),
	}

	var judgment llmjudge.RankJudgment
	used, err := r.router.Invoke(ctx, preference, prompt, func(raw string) error {
		parsed, err := llmjudge.ParseRankJudgment(raw, len(pool))
		if err != nil {
			return err
		}
		judgment = parsed

		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if !judgment.Relevant {
		return nil, used, nil
	}

	ranked := make([]domain.RankedCandidate, 0, len(judgment.Order))
	for i, n := range judgment.Order {
		ranked = append(ranked, domain.RankedCandidate{
			SearchResult:      pool[n-1],
			Rank:              i + 1,
			RankingConfidence: judgment.Confidence,
		})
	}

	return ranked, used, nil
}

func toCandidates(pool []domain.SearchResult) []llmjudge.Candidate {
	out := make([]llmjudge.Candidate, 0, len(pool))
	for _, res := range pool {
		out = append(out, llmjudge.Candidate{
			URL:     res.URL,
			Title:   res.Title,
			Snippet: res.Snippet,
		})
	}

	return out
}
