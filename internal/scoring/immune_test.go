package scoring

import "testing"

func TestProfileImmune(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		axis  Axis
		score float64
	}{
		{"baseline", "tired", AxisInnate, 0.2},
		{"empty", "", AxisInnate, 0.2},
		{"fever", "High FEVER", AxisInnate, 0.5},
		{"allergic", "hives allergy", AxisAllergic, 0.5},
		{"gastro", "vomiting", AxisInnate, 0.4},
		{"all groups clamp", "fever rash diarrhea chills", AxisInnate, 1.0},
		{"substring match", "itchy skin", AxisInnate, 0.5},
		{"autoimmune", "suspected autoimmune flare", AxisAutoimmune, 0.2},
		{"allergy beats autoimmune", "autoimmune allergy", AxisAllergic, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ProfileImmune(tc.text)
			if got.Axis != tc.axis {
				t.Fatalf("expected axis %q got %q", tc.axis, got.Axis)
			}
			if got.InflammationScore != tc.score {
				t.Fatalf("expected score %.2f got %.2f", tc.score, got.InflammationScore)
			}
			if got.InflammationScore < 0 || got.InflammationScore > 1 {
				t.Fatalf("score out of range: %v", got.InflammationScore)
			}
			if got.Notes != ImmuneNotes {
				t.Fatalf("unexpected notes %q", got.Notes)
			}
		})
	}
}
