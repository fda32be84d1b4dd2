package pattern_test

import (
	"context"
	"testing"

	"discovery/pkg/llmjudge"
	"discovery/pkg/llmjudge/pattern"

	"github.com/stretchr/testify/require"
)

func candidates() []llmjudge.Candidate {
	return []llmjudge.Candidate{
		{URL: "https://acme.com/about", Title: "About Acme"},
		{URL: "https://acme.com/pricing", Title: "Pricing and plans"},
		{URL: "https://acme.com/contact", Title: "Contact"},
	}
}

func TestJudge_Brand_NeverRecognizes(t *testing.T) {
	j := pattern.New()

	raw, err := j.Complete(context.Background(), llmjudge.Prompt{
		Role:   llmjudge.RoleBrand,
		Entity: "Acme",
		Domain: "acme.com",
	})
	require.NoError(t, err)

	bj, err := llmjudge.ParseBrandJudgment(raw)
	require.NoError(t, err)
	require.False(t, bj.Recognized)
	require.Zero(t, bj.Confidence)
	require.NotEmpty(t, bj.Reason)
}

func TestJudge_Ranking_OrdersByKeywordScore(t *testing.T) {
	j := pattern.New()

	raw, err := j.Complete(context.Background(), llmjudge.Prompt{
		Role:       llmjudge.RoleRanking,
		Entity:     "Acme",
		Domain:     "acme.com",
		Category:   "pricing",
		Candidates: candidates(),
	})
	require.NoError(t, err)

	rj, err := llmjudge.ParseRankJudgment(raw, 3)
	require.NoError(t, err)
	require.True(t, rj.Relevant)
	// "pricing" and "plans" both match candidate 2; the others score zero.
	require.Equal(t, []int{2}, rj.Order)
	require.InDelta(t, pattern.DegradedConfidence, rj.Confidence, 1e-9)
}

func TestJudge_Ranking_NoMatchIsNotRelevant(t *testing.T) {
	j := pattern.New()

	raw, err := j.Complete(context.Background(), llmjudge.Prompt{
		Role:     llmjudge.RoleRanking,
		Entity:   "Acme",
		Domain:   "acme.com",
		Category: "careers",
		Candidates: []llmjudge.Candidate{
			{URL: "https://acme.com/pricing", Title: "Pricing"},
		},
	})
	require.NoError(t, err)

	rj, err := llmjudge.ParseRankJudgment(raw, 1)
	require.NoError(t, err)
	require.False(t, rj.Relevant)
}

func TestJudge_Selection_PicksBestMatch(t *testing.T) {
	j := pattern.New()

	raw, err := j.Complete(context.Background(), llmjudge.Prompt{
		Role:       llmjudge.RoleSelection,
		Entity:     "Acme",
		Domain:     "acme.com",
		Category:   "pricing",
		Candidates: candidates(),
	})
	require.NoError(t, err)

	sj, err := llmjudge.ParseSelectionJudgment(raw, 3)
	require.NoError(t, err)
	require.True(t, sj.Suitable)
	require.Equal(t, 2, sj.Choice)
}

func TestJudge_IsDeterministic(t *testing.T) {
	j := pattern.New()
	p := llmjudge.Prompt{
		Role:       llmjudge.RoleRanking,
		Entity:     "Acme",
		Domain:     "acme.com",
		Category:   "blog",
		Candidates: candidates(),
	}

	first, err := j.Complete(context.Background(), p)
	require.NoError(t, err)
	second, err := j.Complete(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
