package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"imds-capstone/backend/internal/ai"
	"imds-capstone/backend/internal/scoring"
)

type fakeExplainer struct {
	enabled bool
	text    string
	err     error
	block   bool
	input   ai.ExplanationInput
}

func (f *fakeExplainer) Enabled() bool { return f.enabled }

func (f *fakeExplainer) Explain(ctx context.Context, input ai.ExplanationInput) (string, error) {
	f.input = input
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func TestAssembleWithSentinel(t *testing.T) {
	symptoms := "fever cough myalgia"
	candidates := scoring.Rank(symptoms)
	out := Assemble(symptoms, candidates, scoring.ProfileImmune(symptoms), NarrativeFailed)

	for _, want := range []string{
		Header,
		Disclaimer,
		"Symptoms:\n" + symptoms,
		scoring.FormatCandidates(candidates),
		"Immune axis: Innate (acute)",
		NarrativeFailed,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(out, Header+"\n") {
		t.Fatalf("report must open with header:\n%s", out)
	}
}

func TestAssembleEmptyNarrativeAndCandidates(t *testing.T) {
	out := Assemble("", nil, scoring.ProfileImmune(""), "  ")
	if !strings.Contains(out, NarrativeUnavailable) {
		t.Fatalf("expected unavailable sentinel:\n%s", out)
	}
	if !strings.Contains(out, "(no candidates matched)") {
		t.Fatalf("expected empty candidate marker:\n%s", out)
	}
}

func TestServiceNarrativeOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		explainer ai.Explainer
		narrative string
		outcome   Outcome
	}{
		{"not configured", nil, NarrativeUnavailable, OutcomeUnavailable},
		{"disabled", &fakeExplainer{}, NarrativeUnavailable, OutcomeUnavailable},
		{"disabled error", &fakeExplainer{enabled: true, err: ai.ErrDisabled}, NarrativeUnavailable, OutcomeUnavailable},
		{"upstream failure", &fakeExplainer{enabled: true, err: errors.New("503")}, NarrativeFailed, OutcomeFailed},
		{"ok", &fakeExplainer{enabled: true, text: "Because fever."}, "Because fever.", OutcomeOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(nil, tc.explainer, time.Second)
			got := svc.Explain(context.Background(), "fever cough")
			if got.Narrative != tc.narrative || got.Outcome != tc.outcome {
				t.Fatalf("expected %q/%s got %q/%s", tc.narrative, tc.outcome, got.Narrative, got.Outcome)
			}
			if len(got.Candidates) == 0 {
				t.Fatal("expected candidates even when narrative fails")
			}
		})
	}
}

func TestServiceTimeoutIsFailure(t *testing.T) {
	svc := NewService(nil, &fakeExplainer{enabled: true, block: true}, 20*time.Millisecond)
	start := time.Now()
	got := svc.Explain(context.Background(), "fever")
	if got.Outcome != OutcomeFailed || got.Narrative != NarrativeFailed {
		t.Fatalf("expected failure sentinel, got %+v", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not enforced")
	}
}

func TestServiceReport(t *testing.T) {
	fake := &fakeExplainer{enabled: true, text: "Narrative body."}
	svc := NewService(scoring.NewRanker(scoring.DefaultCandidates()), fake, time.Second)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	rep := svc.Report(context.Background(), "hives allergy, fever")
	if rep.Profile.Axis != scoring.AxisAllergic {
		t.Fatalf("unexpected axis %q", rep.Profile.Axis)
	}
	if !strings.Contains(rep.Text, "Narrative body.") || !strings.Contains(rep.Text, "hives allergy, fever") {
		t.Fatalf("unexpected report text:\n%s", rep.Text)
	}
	if !rep.GeneratedAt.Equal(fixed) {
		t.Fatalf("unexpected timestamp %v", rep.GeneratedAt)
	}
	if fake.input.Symptoms != "hives allergy, fever" || len(fake.input.Candidates) != len(rep.Candidates) {
		t.Fatalf("explainer received unexpected input %+v", fake.input)
	}
}

func TestAnalyzeMatchesPureFunctions(t *testing.T) {
	svc := NewService(nil, nil, 0)
	text := "vomiting, diarrhea, abdominal pain"
	got := svc.Analyze(text)
	want := scoring.Rank(text)
	if len(got.Candidates) != len(want) || got.Candidates[0].Code != want[0].Code {
		t.Fatalf("analysis diverges from Rank: %+v vs %+v", got.Candidates, want)
	}
	if got.Profile != scoring.ProfileImmune(text) {
		t.Fatalf("analysis diverges from ProfileImmune: %+v", got.Profile)
	}
}
