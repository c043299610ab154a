package match

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SymptomText captures the normalization output for a free-text symptom description.
type SymptomText struct {
	Original string
	Lower    string
	Tokens   []string
	set      map[string]struct{}
}

// NormalizeSymptoms lowercases the input, treats commas as whitespace and collapses the
// remaining words into a sorted token set.
func NormalizeSymptoms(input string) SymptomText {
	lower := strings.ToLower(norm.NFKC.String(input))

	fields := strings.Fields(strings.ReplaceAll(lower, ",", " "))
	set := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := set[f]; ok {
			continue
		}
		set[f] = struct{}{}
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)

	return SymptomText{
		Original: input,
		Lower:    lower,
		Tokens:   tokens,
		set:      set,
	}
}

// Has reports whether token is present in the normalized token set.
func (s SymptomText) Has(token string) bool {
	_, ok := s.set[token]
	return ok
}

// Empty reports whether the text produced no tokens.
func (s SymptomText) Empty() bool {
	return len(s.Tokens) == 0
}

// ContainsAny reports whether any of the terms occurs as a substring of the lowercased text.
func (s SymptomText) ContainsAny(terms ...string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(s.Lower, term) {
			return true
		}
	}
	return false
}

// NormalizeKeywords lowercases and dedupes a keyword list, dropping blanks.
func NormalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(norm.NFKC.String(kw)))
		if kw == "" {
			continue
		}
		out = appendUnique(out, kw)
	}
	return out
}

func appendUnique(s []string, v string) []string {
	if v == "" {
		return s
	}
	for _, existing := range s {
		if existing == v {
			return s
		}
	}
	return append(s, v)
}
