package api

import (
	"imds-capstone/backend/internal/report"
	"imds-capstone/backend/internal/scoring"
)

// SymptomsRequest is the single-field payload accepted by every module, as form or JSON.
type SymptomsRequest struct {
	Symptoms string `form:"symptoms" json:"symptoms" binding:"required"`
}

// LoginForm carries the demo credentials.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// CandidatesResponse answers /api/icd.
type CandidatesResponse struct {
	Symptoms   string                    `json:"symptoms"`
	Candidates []scoring.RankedCandidate `json:"candidates"`
}

// ProfileResponse answers /api/immuno.
type ProfileResponse struct {
	Symptoms string                `json:"symptoms"`
	Profile  scoring.ImmuneProfile `json:"profile"`
}

// ExplanationResponse answers /api/ai.
type ExplanationResponse struct {
	report.Explanation
}

// ReportResponse answers /api/reports.
type ReportResponse struct {
	report.Report
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
