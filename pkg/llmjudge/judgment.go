package llmjudge

import (
	"encoding/json"
	"strings"

	"discovery/pkg/serrors"
)

// BrandJudgment is the parsed response to a RoleBrand prompt.
type BrandJudgment struct {
	Recognized bool    `json:"recognized"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// RankJudgment is the parsed response to a RoleRanking prompt. Order holds
// 1-based candidate numbers, best first. Relevant=false declares that no
// candidate fits the category.
type RankJudgment struct {
	Relevant   bool    `json:"relevant"`
	Order      []int   `json:"order"`
	Confidence float64 `json:"confidence"`
}

// SelectionJudgment is the parsed response to a RoleSelection prompt. Choice
// is the 1-based candidate number. Suitable=false declares that none of the
// candidates is acceptable.
type SelectionJudgment struct {
	Suitable   bool    `json:"suitable"`
	Choice     int     `json:"choice"`
	Confidence float64 `json:"confidence"`
}

// ParseBrandJudgment parses a provider completion into a BrandJudgment.
func ParseBrandJudgment(raw string) (BrandJudgment, error) {
	var j BrandJudgment
	if err := parseJudgment(raw, &j); err != nil {
		return BrandJudgment{}, err
	}
	j.Confidence = clamp01(j.Confidence)

	return j, nil
}

// ParseRankJudgment parses a provider completion into a RankJudgment and
// validates the ordering against the number of candidates presented. The
// order is truncated to MaxRankedCandidates; duplicate or out-of-range
// candidate numbers make the response malformed.
func ParseRankJudgment(raw string, numCandidates int) (RankJudgment, error) {
	var j RankJudgment
	if err := parseJudgment(raw, &j); err != nil {
		return RankJudgment{}, err
	}
	j.Confidence = clamp01(j.Confidence)
	if !j.Relevant {
		return RankJudgment{Relevant: false}, nil
	}
	if len(j.Order) == 0 {
		return RankJudgment{}, serrors.With(serrors.ErrMalformed, "ranking declared relevant but returned no order")
	}
	if len(j.Order) > MaxRankedCandidates {
		j.Order = j.Order[:MaxRankedCandidates]
	}
	seen := make(map[int]bool, len(j.Order))
	for _, n := range j.Order {
		if n < 1 || n > numCandidates || seen[n] {
			return RankJudgment{}, serrors.With(serrors.ErrMalformed, "invalid candidate number %d in ranking", n)
		}
		seen[n] = true
	}

	return j, nil
}

// ParseSelectionJudgment parses a provider completion into a
// SelectionJudgment and validates the choice against the candidate count.
func ParseSelectionJudgment(raw string, numCandidates int) (SelectionJudgment, error) {
	var j SelectionJudgment
	if err := parseJudgment(raw, &j); err != nil {
		return SelectionJudgment{}, err
	}
	j.Confidence = clamp01(j.Confidence)
	if !j.Suitable {
		return SelectionJudgment{Suitable: false}, nil
	}
	if j.Choice < 1 || j.Choice > numCandidates {
		return SelectionJudgment{}, serrors.With(serrors.ErrMalformed, "invalid candidate choice %d", j.Choice)
	}

	return j, nil
}

// parseJudgment extracts the first JSON object from raw and decodes it into
// out. Providers occasionally wrap the object in markdown fences or prose;
// anything before the first '{' and after the matching '}' is discarded.
func parseJudgment(raw string, out any) error {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return serrors.With(serrors.ErrMalformed, "no JSON object in completion")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), out); err != nil {
		return serrors.Wrap(serrors.ErrMalformed, err, "could not decode judgment")
	}

	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
