package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imds-capstone/backend/internal/report"
)

func TestRunTextFromFlag(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-symptoms", "fever, cough, myalgia"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.HasPrefix(text, report.Header) {
		t.Fatalf("expected report header, got %q", text)
	}
	if !strings.Contains(text, "1. J10.1 Influenza with other respiratory manifestations (score 0.600; matched: cough, fever, myalgia)") {
		t.Fatalf("expected ranked candidate line, got %q", text)
	}
	if !strings.Contains(text, report.NarrativeUnavailable) {
		t.Fatalf("expected unavailable sentinel, got %q", text)
	}
}

func TestRunReadsStdin(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), nil, strings.NewReader("  diarrhea and vomiting\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "A09") {
		t.Fatalf("expected A09 in report, got %q", out.String())
	}
}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-format", "json", "-symptoms", "fever"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Outcome != report.OutcomeUnavailable {
		t.Fatalf("expected unavailable outcome, got %s", rep.Outcome)
	}
	if len(rep.Candidates) != 2 || rep.Candidates[0].Code != "B34.9" {
		t.Fatalf("unexpected candidates %+v", rep.Candidates)
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.txt")
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-symptoms", "fever", "-output", path}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), report.Header) {
		t.Fatalf("unexpected file contents %q", data)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{"no symptoms", nil, "   "},
		{"bad format", []string{"-format", "xml", "-symptoms", "fever"}, ""},
		{"missing table", []string{"-candidates", "does-not-exist.json", "-symptoms", "fever"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(context.Background(), tc.args, strings.NewReader(tc.stdin), &out); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
