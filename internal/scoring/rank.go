package scoring

import (
	"math"
	"sort"

	"imds-capstone/backend/internal/match"
)

// MaxCandidates bounds the length of a ranking.
const MaxCandidates = 5

// RankedCandidate is a reference entry scored against one symptom description.
type RankedCandidate struct {
	Code    string   `json:"code"`
	Title   string   `json:"title"`
	Score   float64  `json:"score"`
	Matched []string `json:"matched"`
}

// Ranker scores symptom text against an immutable reference table.
type Ranker struct {
	entries []entry
}

// NewRanker builds a ranker over the supplied candidates. The slice is copied.
func NewRanker(candidates []Candidate) *Ranker {
	return &Ranker{entries: compile(candidates)}
}

var defaultRanker = NewRanker(defaultCandidates)

// Rank scores text against the built-in reference table.
func Rank(text string) []RankedCandidate {
	return defaultRanker.Rank(text)
}

// Size returns the number of reference entries.
func (r *Ranker) Size() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Rank returns at most MaxCandidates entries whose keywords overlap the text, best first.
// Ties keep reference table order.
func (r *Ranker) Rank(text string) []RankedCandidate {
	return r.RankNormalized(match.NormalizeSymptoms(text))
}

// RankNormalized is Rank for text that has already been normalized.
func (r *Ranker) RankNormalized(symptoms match.SymptomText) []RankedCandidate {
	out := []RankedCandidate{}
	if r == nil || symptoms.Empty() {
		return out
	}

	for _, e := range r.entries {
		var matched []string
		for _, tok := range symptoms.Tokens {
			if _, ok := e.keywords[tok]; ok {
				matched = append(matched, tok)
			}
		}
		if len(matched) == 0 {
			continue
		}
		denom := len(e.keywords)
		if denom == 0 {
			denom = 1
		}
		// Tokens are already sorted, so matched is too.
		out = append(out, RankedCandidate{
			Code:    e.code,
			Title:   e.title,
			Score:   round(float64(len(matched))/float64(denom), 3),
			Matched: matched,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
