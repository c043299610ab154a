package ai

import (
	"fmt"
	"strings"

	"imds-capstone/backend/internal/scoring"
)

// Disclaimer is repeated in every prompt and every report.
const Disclaimer = "Disclaimer: Educational clinical decision support only. " +
	"Not a medical diagnosis and not medical advice."

// BuildPrompt renders the instruction sent to every provider.
func BuildPrompt(input ExplanationInput) string {
	builder := &strings.Builder{}
	builder.WriteString("You are an academic clinical decision-support assistant.\n")
	builder.WriteString("Do NOT claim to diagnose.\n\n")
	fmt.Fprintf(builder, "%s\n\n", Disclaimer)
	fmt.Fprintf(builder, "Symptoms:\n%s\n\n", strings.TrimSpace(input.Symptoms))
	fmt.Fprintf(builder, "ICD-10 candidates:\n%s\n\n", scoring.FormatCandidates(input.Candidates))
	fmt.Fprintf(builder, "Immuno profile:\n%s\n\n", input.Profile)
	builder.WriteString("Write:\n")
	builder.WriteString("1) Why these are candidates (no diagnosis).\n")
	builder.WriteString("2) 3 follow-up questions.\n")
	builder.WriteString("3) 3 generic red flags that need urgent care.\n")
	builder.WriteString("Keep it concise.")
	return builder.String()
}
