package llmjudge

import (
	"fmt"
	"strings"
)

// MaxRankedCandidates caps the ordered top-N a ranking judge may return.
const MaxRankedCandidates = 10

// Render builds the instruction text sent to a text-completion provider. Each
// role asks for a single JSON object so the response can be parsed with the
// judgment schemas below.
func (p Prompt) Render() string {
	var b strings.Builder

	switch p.Role {
	case RoleBrand:
		fmt.Fprintf(&b, "You are validating a business entity for competitive research.\n\n")
		fmt.Fprintf(&b, "Entity name: %s\nClaimed website: %s\n\n", p.Entity, p.Domain)
		b.WriteString("Does this entity plausibly exist as a real, sufficiently well-known business, " +
			"and is the website consistent with the name?\n")
		b.WriteString("Respond with ONLY a JSON object: " +
			`{"recognized": <bool>, "confidence": <0.0-1.0>, "reason": "<short reason>"}`)
	case RoleRanking:
		fmt.Fprintf(&b, "You are ranking candidate URLs for the %q page of %s (%s).\n\nCandidates:\n",
			p.Category, p.Entity, p.Domain)
		p.writeCandidates(&b)
		fmt.Fprintf(&b, "\nOrder the candidates from most to least likely to be the official %s page. "+
			"Return at most %d entries, using the 1-based candidate numbers.\n", p.Category, MaxRankedCandidates)
		b.WriteString("Respond with ONLY a JSON object: " +
			`{"relevant": <bool>, "order": [<candidate numbers>], "confidence": <0.0-1.0>}` +
			"\nSet relevant to false if no candidate is plausibly the " + p.Category + " page.")
	case RoleSelection:
		fmt.Fprintf(&b, "You are choosing the single best URL for the %q page of %s (%s).\n\nCandidates:\n",
			p.Category, p.Entity, p.Domain)
		p.writeCandidates(&b)
		fmt.Fprintf(&b, "\nWhich candidate is most likely the official %s page of %s?\n", p.Category, p.Domain)
		b.WriteString("Respond with ONLY a JSON object: " +
			`{"suitable": <bool>, "choice": <candidate number>, "confidence": <0.0-1.0>}` +
			"\nSet suitable to false if none of the candidates is acceptable.")
	}

	return b.String()
}

func (p Prompt) writeCandidates(b *strings.Builder) {
	for i, c := range p.Candidates {
		fmt.Fprintf(b, "%d. URL: %s\n   Title: %s\n   Snippet: %s\n", i+1, c.URL, c.Title, c.Snippet)
	}
}
