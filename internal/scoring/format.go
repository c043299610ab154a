package scoring

import (
	"fmt"
	"strings"
)

// FormatCandidates renders a ranking as numbered plain-text lines.
func FormatCandidates(candidates []RankedCandidate) string {
	if len(candidates) == 0 {
		return "(no candidates matched)"
	}
	b := &strings.Builder{}
	for i, c := range candidates {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(b, "%d. %s %s (score %.3f; matched: %s)", i+1, c.Code, c.Title, c.Score, strings.Join(c.Matched, ", "))
	}
	return b.String()
}

// String renders the profile as plain-text lines.
func (p ImmuneProfile) String() string {
	return fmt.Sprintf("Immune axis: %s\nInflammation score: %.2f\nNotes: %s", p.Axis, p.InflammationScore, p.Notes)
}
