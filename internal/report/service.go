package report

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"imds-capstone/backend/internal/ai"
	"imds-capstone/backend/internal/match"
	"imds-capstone/backend/internal/scoring"
	"imds-capstone/backend/internal/util"
)

// Outcome classifies how a narrative was obtained.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeFailed      Outcome = "failed"
)

const defaultNarrativeTimeout = 20 * time.Second

// Analysis holds the deterministic parts derived from symptom text.
type Analysis struct {
	Symptoms   string                    `json:"symptoms"`
	Candidates []scoring.RankedCandidate `json:"candidates"`
	Profile    scoring.ImmuneProfile     `json:"profile"`
}

// Explanation is an analysis plus its narrative.
type Explanation struct {
	Analysis
	Narrative string  `json:"narrative"`
	Outcome   Outcome `json:"narrative_outcome"`
}

// Report is a full explanation rendered as text.
type Report struct {
	Explanation
	Text        string    `json:"report"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Service composes ranking, immune profiling, and the narrative generator.
type Service struct {
	ranker    *scoring.Ranker
	explainer ai.Explainer
	timeout   time.Duration
	now       func() time.Time
}

// NewService wires a service. A nil explainer means narratives are unavailable.
func NewService(ranker *scoring.Ranker, explainer ai.Explainer, timeout time.Duration) *Service {
	if ranker == nil {
		ranker = scoring.NewRanker(scoring.DefaultCandidates())
	}
	if timeout <= 0 {
		timeout = defaultNarrativeTimeout
	}
	return &Service{ranker: ranker, explainer: explainer, timeout: timeout, now: time.Now}
}

// NarrativeEnabled reports whether a narrative generator is configured.
func (s *Service) NarrativeEnabled() bool {
	return s.explainer != nil && s.explainer.Enabled()
}

// Analyze ranks candidates and profiles the text.
func (s *Service) Analyze(symptoms string) Analysis {
	normalized := match.NormalizeSymptoms(symptoms)
	return Analysis{
		Symptoms:   symptoms,
		Candidates: s.ranker.RankNormalized(normalized),
		Profile:    scoring.ProfileNormalized(normalized),
	}
}

// Explain analyzes the text and asks the generator for a narrative. Generator
// failures are replaced by sentinel text and never returned.
func (s *Service) Explain(ctx context.Context, symptoms string) Explanation {
	analysis := s.Analyze(symptoms)
	narrative, outcome := s.narrate(ctx, analysis)
	return Explanation{Analysis: analysis, Narrative: narrative, Outcome: outcome}
}

// Report runs Explain and assembles the text report.
func (s *Service) Report(ctx context.Context, symptoms string) Report {
	explanation := s.Explain(ctx, symptoms)
	return Report{
		Explanation: explanation,
		Text:        Assemble(explanation.Symptoms, explanation.Candidates, explanation.Profile, explanation.Narrative),
		GeneratedAt: s.now().UTC(),
	}
}

func (s *Service) narrate(ctx context.Context, analysis Analysis) (string, Outcome) {
	if !s.NarrativeEnabled() {
		return NarrativeUnavailable, OutcomeUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	timer := util.StartTimer()
	text, err := s.explainer.Explain(ctx, ai.ExplanationInput{
		Symptoms:   analysis.Symptoms,
		Candidates: analysis.Candidates,
		Profile:    analysis.Profile,
	})
	fields := logrus.Fields{"elapsed_ms": timer.ElapsedMs(), "candidates": len(analysis.Candidates)}
	if errors.Is(err, ai.ErrDisabled) {
		logrus.WithFields(fields).Info("narrative generator disabled")
		return NarrativeUnavailable, OutcomeUnavailable
	}
	if err != nil {
		logrus.WithError(err).WithFields(fields).Warn("narrative generator failed; falling back to sentinel text")
		return NarrativeFailed, OutcomeFailed
	}
	logrus.WithFields(fields).Debug("narrative generated")
	return text, OutcomeOK
}
