package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	responses  []string
	errs       []error
	calls      int
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	i := s.calls
	s.calls++

	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestEnricherEmbedsReportInPrompt(t *testing.T) {
	stub := &stubGenerator{responses: []string{"Polished narrative"}}
	enricher := NewEnricher(stub, zap.NewNop(), 0, 0)

	polished, err := enricher.Enrich(context.Background(), "Job Recommendations for c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if polished != "Polished narrative" {
		t.Fatalf("unexpected output: %s", polished)
	}

	if !strings.Contains(stub.lastPrompt, "Job Recommendations for c1") {
		t.Fatalf("expected report in prompt, got: %s", stub.lastPrompt)
	}

	if strings.Contains(stub.lastPrompt, "{{REPORT}}") {
		t.Fatalf("placeholder not substituted: %s", stub.lastPrompt)
	}
}

func TestEnricherRetriesTransientFailures(t *testing.T) {
	stub := &stubGenerator{
		errs:      []error{errors.New("503"), nil},
		responses: []string{"", "Polished narrative"},
	}
	enricher := NewEnricher(stub, zap.NewNop(), 0, 0)
	enricher.backoff = 0

	polished, err := enricher.Enrich(context.Background(), "report text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if polished != "Polished narrative" {
		t.Fatalf("unexpected output: %s", polished)
	}

	if stub.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", stub.calls)
	}
}

func TestEnricherGivesUpAfterMaxAttempts(t *testing.T) {
	boom := errors.New("boom")
	stub := &stubGenerator{errs: []error{boom, boom, boom}}
	enricher := NewEnricher(stub, zap.NewNop(), 0, 0)
	enricher.backoff = 0

	if _, err := enricher.Enrich(context.Background(), "report text"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got: %v", err)
	}

	if stub.calls != defaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultMaxAttempts, stub.calls)
	}
}

func TestEnricherRejectsEmptyReport(t *testing.T) {
	enricher := NewEnricher(&stubGenerator{}, zap.NewNop(), 0, 0)

	if _, err := enricher.Enrich(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty report")
	}
}
