package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/util"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	defaultMaxAttempts  = 3
	retryBackoff        = 2 * time.Second
)

// Enricher sends the rendered recommendation report through Gemini to produce
// a candidate-friendly narrative. Transient failures are retried with a fixed
// backoff; callers decide what to do when all attempts fail.
type Enricher struct {
	generator contentGenerator
	logger    *zap.Logger
	attempts  int
	maxLogLen int
	backoff   time.Duration
}

func NewEnricher(generator contentGenerator, logger *zap.Logger, maxRetries, maxLogLength int) *Enricher {
	if maxRetries <= 0 {
		maxRetries = defaultMaxAttempts
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Enricher{
		generator: generator,
		logger:    logger,
		attempts:  maxRetries,
		maxLogLen: maxLogLength,
		backoff:   retryBackoff,
	}
}

func (e *Enricher) Enrich(ctx context.Context, report string) (string, error) {
	if strings.TrimSpace(report) == "" {
		return "", fmt.Errorf("report must not be empty")
	}

	prompt := buildPrompt(report)

	e.logger.Debug("gemini enrich request",
		zap.String("model", e.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, e.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= e.attempts; attempt++ {
		polished, err := e.generator.GenerateContent(ctx, prompt)
		if err == nil {
			e.logger.Debug("gemini enrich response",
				zap.Int("attempt", attempt),
				zap.Int("response_length", utf8.RuneCountInString(polished)),
				zap.String("response_preview", util.TruncateForLog(polished, e.maxLogLen)),
			)
			return polished, nil
		}

		lastErr = err
		e.logger.Warn("gemini enrich attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", e.attempts),
			zap.Error(err),
		)

		if attempt == e.attempts {
			break
		}
		if err := util.WaitFor(ctx, e.backoff); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("enrich report: %w", lastErr)
}

func (e *Enricher) Model() string {
	return e.generator.Model()
}

func buildPrompt(report string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Polish this job recommendation report:\n{{REPORT}}"
	}
	return strings.ReplaceAll(template, "{{REPORT}}", report)
}
