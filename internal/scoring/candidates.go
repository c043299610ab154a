package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imds-capstone/backend/internal/match"
)

// Candidate is a reference entry pairing a code with the keywords that suggest it.
type Candidate struct {
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

var defaultCandidates = []Candidate{
	{Code: "J10.1", Title: "Influenza with other respiratory manifestations", Keywords: []string{"flu", "influenza", "fever", "cough", "myalgia"}},
	{Code: "J00", Title: "Acute nasopharyngitis [common cold]", Keywords: []string{"cold", "coryza", "sneezing", "sore", "throat"}},
	{Code: "A09", Title: "Infectious gastroenteritis and colitis, unspecified", Keywords: []string{"diarrhea", "vomiting", "gastro", "abdominal", "pain"}},
	{Code: "B34.9", Title: "Viral infection, unspecified", Keywords: []string{"viral", "fever", "malaise"}},
}

// DefaultCandidates returns a copy of the built-in demo reference table.
func DefaultCandidates() []Candidate {
	out := make([]Candidate, len(defaultCandidates))
	for i, c := range defaultCandidates {
		out[i] = Candidate{Code: c.Code, Title: c.Title, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// LoadCandidates reads a reference table from a JSON array of candidates.
func LoadCandidates(path string) ([]Candidate, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	var raw []Candidate
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("candidate table is empty")
	}
	for i, c := range raw {
		if strings.TrimSpace(c.Code) == "" {
			return nil, fmt.Errorf("candidate %d: code is required", i)
		}
	}
	return raw, nil
}

type entry struct {
	code     string
	title    string
	keywords map[string]struct{}
}

func compile(candidates []Candidate) []entry {
	out := make([]entry, 0, len(candidates))
	for _, c := range candidates {
		keys := match.NormalizeKeywords(c.Keywords)
		set := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			set[k] = struct{}{}
		}
		out = append(out, entry{
			code:     strings.TrimSpace(c.Code),
			title:    strings.TrimSpace(c.Title),
			keywords: set,
		})
	}
	return out
}
