// Package pattern provides the deterministic keyword judge used as the
// terminal entry of the provider fallback chain. It never fails, needs no
// credentials, and always reports a low fixed confidence so downstream
// filtering treats its answers as degraded.
package pattern

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"discovery/pkg/domain"
	"discovery/pkg/llmjudge"
)

// Name is the provider identifier reported as llm_used for degraded results.
const Name = "pattern"

// DegradedConfidence is the fixed confidence attached to every pattern
// judgment. It sits below any reasonable acceptance threshold.
const DegradedConfidence = 0.2

// Judge is an llmjudge.Client that answers prompts by keyword matching
// against the category patterns instead of calling a model.
type Judge struct{}

// New constructs a Judge.
func New() *Judge { return &Judge{} }

// Name implements llmjudge.Client.
func (j *Judge) Name() string { return Name }

// Complete answers the prompt deterministically. The response uses the same
// JSON schemas as the model providers so callers parse it identically.
func (j *Judge) Complete(_ context.Context, p llmjudge.Prompt) (string, error) {
	switch p.Role {
	case llmjudge.RoleBrand:
		// A keyword matcher cannot confirm that a brand exists; reporting
		// recognized would let fabricated entities through the gate.
		return marshal(llmjudge.BrandJudgment{
			Recognized: false,
			Confidence: 0,
			Reason:     "degraded pattern judge cannot confirm brand recognition",
		})
	case llmjudge.RoleRanking:
		order := rankByPatterns(p)
		if len(order) == 0 {
			return marshal(llmjudge.RankJudgment{Relevant: false})
		}
		if len(order) > llmjudge.MaxRankedCandidates {
			order = order[:llmjudge.MaxRankedCandidates]
		}

		return marshal(llmjudge.RankJudgment{
			Relevant:   true,
			Order:      order,
			Confidence: DegradedConfidence,
		})
	case llmjudge.RoleSelection:
		order := rankByPatterns(p)
		if len(order) == 0 {
			return marshal(llmjudge.SelectionJudgment{Suitable: false})
		}

		return marshal(llmjudge.SelectionJudgment{
			Suitable:   true,
			Choice:     order[0],
			Confidence: DegradedConfidence,
		})
	}

	return marshal(llmjudge.BrandJudgment{Recognized: false})
}

// rankByPatterns orders candidates by how many category keywords appear in
// their URL or title. Candidates without any match are excluded. Ties keep
// the original candidate order, so the result is deterministic for a fixed
// input.
func rankByPatterns(p llmjudge.Prompt) []int {
	cat, err := domain.ParseCategory(p.Category)
	if err != nil {
		return nil
	}
	patterns := cat.Patterns()

	type scored struct {
		num   int // 1-based candidate number
		score int
	}
	matches := make([]scored, 0, len(p.Candidates))
	for i, c := range p.Candidates {
		haystack := strings.ToLower(c.URL + " " + c.Title)
		score := 0
		for _, pat := range patterns {
			if strings.Contains(haystack, pat) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{num: i + 1, score: score})
		}
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].score > matches[b].score })

	order := make([]int, len(matches))
	for i, m := range matches {
		order[i] = m.num
	}

	return order
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Ensure Judge conforms to the llmjudge.Client interface at compile time.
var _ llmjudge.Client = (*Judge)(nil)
