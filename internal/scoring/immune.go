package scoring

import (
	"math"

	"imds-capstone/backend/internal/match"
)

// Axis names the dominant immune response pattern suggested by symptom text.
type Axis string

const (
	AxisAllergic   Axis = "Th2-skewed (allergic)"
	AxisAutoimmune Axis = "Autoimmune-like"
	AxisInnate     Axis = "Innate (acute)"
)

// ImmuneNotes is attached to every profile; the heuristic is a proxy, not a clinical model.
const ImmuneNotes = "Proxy profiling from symptom text. Replace with your immunoinformatics pipeline."

const baseInflammation = 0.2

// ImmuneProfile captures heuristic immune profiling output.
type ImmuneProfile struct {
	Axis              Axis    `json:"immune_axis"`
	InflammationScore float64 `json:"inflammation_score"`
	Notes             string  `json:"notes"`
}

type inflammationGroup struct {
	terms []string
	bonus float64
}

var inflammationGroups = []inflammationGroup{
	{terms: []string{"fever", "chills"}, bonus: 0.3},
	{terms: []string{"rash", "hives", "allergy", "itch"}, bonus: 0.3},
	{terms: []string{"diarrhea", "vomiting"}, bonus: 0.2},
}

// ProfileImmune derives an immune profile from raw symptom text.
func ProfileImmune(text string) ImmuneProfile {
	return ProfileNormalized(match.NormalizeSymptoms(text))
}

// ProfileNormalized derives an immune profile using substring checks on the lowercased text.
func ProfileNormalized(symptoms match.SymptomText) ImmuneProfile {
	inflammation := baseInflammation
	for _, g := range inflammationGroups {
		if symptoms.ContainsAny(g.terms...) {
			inflammation += g.bonus
		}
	}
	inflammation = math.Min(1.0, round(inflammation, 2))

	axis := AxisInnate
	switch {
	case symptoms.ContainsAny("allergy", "hives"):
		axis = AxisAllergic
	case symptoms.ContainsAny("autoimmune"):
		axis = AxisAutoimmune
	}

	return ImmuneProfile{
		Axis:              axis,
		InflammationScore: inflammation,
		Notes:             ImmuneNotes,
	}
}
