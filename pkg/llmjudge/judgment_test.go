package llmjudge_test

import (
	"testing"

	"discovery/pkg/llmjudge"
	"discovery/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestParseBrandJudgment(t *testing.T) {
	j, err := llmjudge.ParseBrandJudgment(`{"recognized": true, "confidence": 0.85, "reason": "well-known"}`)
	require.NoError(t, err)
	require.True(t, j.Recognized)
	require.InDelta(t, 0.85, j.Confidence, 1e-9)
	require.Equal(t, "well-known", j.Reason)
}

func TestParseBrandJudgment_StripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"recognized\": false, \"confidence\": 0.1, \"reason\": \"unknown\"}\n```"
	j, err := llmjudge.ParseBrandJudgment(raw)
	require.NoError(t, err)
	require.False(t, j.Recognized)
}

func TestParseBrandJudgment_ClampsConfidence(t *testing.T) {
	j, err := llmjudge.ParseBrandJudgment(`{"recognized": true, "confidence": 1.7}`)
	require.NoError(t, err)
	require.InDelta(t, 1.0, j.Confidence, 1e-9)
}

func TestParseBrandJudgment_NoJSON(t *testing.T) {
	_, err := llmjudge.ParseBrandJudgment("I cannot answer that.")
	require.ErrorIs(t, err, serrors.ErrMalformed)
}

func TestParseRankJudgment(t *testing.T) {
	j, err := llmjudge.ParseRankJudgment(`{"relevant": true, "order": [3,1,2], "confidence": 0.9}`, 3)
	require.NoError(t, err)
	require.True(t, j.Relevant)
	require.Equal(t, []int{3, 1, 2}, j.Order)
}

func TestParseRankJudgment_NotRelevant(t *testing.T) {
	j, err := llmjudge.ParseRankJudgment(`{"relevant": false}`, 5)
	require.NoError(t, err)
	require.False(t, j.Relevant)
	require.Empty(t, j.Order)
}

func TestParseRankJudgment_OutOfRange(t *testing.T) {
	_, err := llmjudge.ParseRankJudgment(`{"relevant": true, "order": [4], "confidence": 0.9}`, 3)
	require.ErrorIs(t, err, serrors.ErrMalformed)
}

func TestParseRankJudgment_Duplicate(t *testing.T) {
	_, err := llmjudge.ParseRankJudgment(`{"relevant": true, "order": [1,1], "confidence": 0.9}`, 3)
	require.ErrorIs(t, err, serrors.ErrMalformed)
}

func TestParseRankJudgment_EmptyOrderIsMalformed(t *testing.T) {
	_, err := llmjudge.ParseRankJudgment(`{"relevant": true, "order": [], "confidence": 0.9}`, 3)
	require.ErrorIs(t, err, serrors.ErrMalformed)
}

func TestParseSelectionJudgment(t *testing.T) {
	j, err := llmjudge.ParseSelectionJudgment(`{"suitable": true, "choice": 2, "confidence": 0.8}`, 3)
	require.NoError(t, err)
	require.True(t, j.Suitable)
	require.Equal(t, 2, j.Choice)
}

func TestParseSelectionJudgment_Decline(t *testing.T) {
	j, err := llmjudge.ParseSelectionJudgment(`{"suitable": false}`, 3)
	require.NoError(t, err)
	require.False(t, j.Suitable)
}

func TestParseSelectionJudgment_BadChoice(t *testing.T) {
	_, err := llmjudge.ParseSelectionJudgment(`{"suitable": true, "choice": 0, "confidence": 0.8}`, 3)
	require.ErrorIs(t, err, serrors.ErrMalformed)
}

func TestPromptRender_IncludesCandidates(t *testing.T) {
	p := llmjudge.Prompt{
		Role:     llmjudge.RoleSelection,
		Entity:   "Acme",
		Domain:   "acme.com",
		Category: "pricing",
		Candidates: []llmjudge.Candidate{
			{URL: "https://acme.com/pricing", Title: "Pricing", Snippet: "Plans"},
		},
	}
	text := p.Render()
	require.Contains(t, text, "https://acme.com/pricing")
	require.Contains(t, text, `"suitable"`)
	require.Contains(t, text, "1. URL:")
}
