package report

import (
	"fmt"
	"strings"

	"imds-capstone/backend/internal/ai"
	"imds-capstone/backend/internal/scoring"
)

const (
	// Header opens every report.
	Header = "IMDS CAPSTONE REPORT (Demo)"
	// Disclaimer is shared with the narrative prompt.
	Disclaimer = ai.Disclaimer

	// NarrativeUnavailable replaces the narrative when no generator is configured.
	NarrativeUnavailable = "AI explanation unavailable: no narrative generator credential is configured."
	// NarrativeFailed replaces the narrative when the generator call errors or times out.
	NarrativeFailed = "AI explanation could not be generated at this time; heuristic results are shown above."
)

// Assemble renders the plain-text report. It never fails; an empty narrative is replaced
// by NarrativeUnavailable.
func Assemble(symptoms string, candidates []scoring.RankedCandidate, profile scoring.ImmuneProfile, narrative string) string {
	if strings.TrimSpace(narrative) == "" {
		narrative = NarrativeUnavailable
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s\n\n", Header)
	fmt.Fprintf(b, "%s\n\n", Disclaimer)
	fmt.Fprintf(b, "Symptoms:\n%s\n\n", symptoms)
	fmt.Fprintf(b, "ICD-10 Candidates:\n%s\n\n", scoring.FormatCandidates(candidates))
	fmt.Fprintf(b, "Immunoinformatics Profiling (Proxy):\n%s\n\n", profile)
	fmt.Fprintf(b, "AI Explanation:\n%s\n", narrative)
	return b.String()
}
