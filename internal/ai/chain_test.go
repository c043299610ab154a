package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubExplainer struct {
	enabled bool
	text    string
	err     error
	calls   int
}

func (s *stubExplainer) Enabled() bool { return s.enabled }

func (s *stubExplainer) Explain(ctx context.Context, input ExplanationInput) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestWithFallback(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name      string
		primary   *stubExplainer
		fallback  *stubExplainer
		expected  string
		expectErr error
	}{
		{"primary ok", &stubExplainer{enabled: true, text: "primary"}, &stubExplainer{enabled: true, text: "fallback"}, "primary", nil},
		{"primary error", &stubExplainer{enabled: true, err: boom}, &stubExplainer{enabled: true, text: "fallback"}, "fallback", nil},
		{"primary blank", &stubExplainer{enabled: true, text: "  "}, &stubExplainer{enabled: true, text: "fallback"}, "fallback", nil},
		{"primary disabled", &stubExplainer{}, &stubExplainer{enabled: true, text: "fallback"}, "fallback", nil},
		{"both fail", &stubExplainer{enabled: true, err: boom}, &stubExplainer{}, "", boom},
		{"both disabled", &stubExplainer{}, &stubExplainer{}, "", ErrDisabled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chain := WithFallback(tc.primary, tc.fallback)
			text, err := chain.Explain(context.Background(), sampleInput())
			if !errors.Is(err, tc.expectErr) {
				t.Fatalf("expected error %v got %v", tc.expectErr, err)
			}
			if text != tc.expected {
				t.Fatalf("expected %q got %q", tc.expected, text)
			}
		})
	}
}

func TestWithFallbackNilSides(t *testing.T) {
	only := &stubExplainer{enabled: true}
	if WithFallback(nil, only) != Explainer(only) {
		t.Fatal("expected fallback returned when primary nil")
	}
	if WithFallback(only, nil) != Explainer(only) {
		t.Fatal("expected primary returned when fallback nil")
	}
}

func TestWithCache(t *testing.T) {
	stub := &stubExplainer{enabled: true, text: "cached narrative"}
	explainer := WithCache(stub, time.Minute).(*cachingExplainer)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	explainer.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		text, err := explainer.Explain(context.Background(), sampleInput())
		if err != nil || text != "cached narrative" {
			t.Fatalf("unexpected result %q, %v", text, err)
		}
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", stub.calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := explainer.Explain(context.Background(), sampleInput()); err != nil {
		t.Fatalf("explain: %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected refresh after ttl, got %d calls", stub.calls)
	}
}

func TestWithCacheSkipsErrors(t *testing.T) {
	stub := &stubExplainer{enabled: true, err: errors.New("down")}
	explainer := WithCache(stub, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := explainer.Explain(context.Background(), sampleInput()); err == nil {
			t.Fatal("expected error")
		}
	}
	if stub.calls != 2 {
		t.Fatalf("errors must not be cached, got %d calls", stub.calls)
	}
	if WithCache(stub, 0) != Explainer(stub) {
		t.Fatal("zero ttl should return the explainer unchanged")
	}
}
