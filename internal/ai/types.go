package ai

import (
	"context"
	"errors"
	"time"

	"imds-capstone/backend/internal/scoring"
)

// Explainer produces an explanatory narrative for scored symptom text.
type Explainer interface {
	Enabled() bool
	Explain(ctx context.Context, input ExplanationInput) (string, error)
}

// Provider selects the text-generation backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Config holds narrative generator configuration.
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ExplanationInput describes the signals that feed the narrative.
type ExplanationInput struct {
	Symptoms   string
	Candidates []scoring.RankedCandidate
	Profile    scoring.ImmuneProfile
}

// ErrDisabled is returned when no credential is configured.
var ErrDisabled = errors.New("narrative generator disabled")
