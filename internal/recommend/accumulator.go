// Package recommend collects scored postings per candidate until a completion
// threshold is met, then renders the final recommendation report and clears
// the session.
package recommend

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/score"
)

const (
	defaultThreshold      = 5
	defaultTopMatches     = 5
	defaultSessionTimeout = 2 * time.Minute
	defaultSweepInterval  = 5 * time.Second
)

// Config tunes the accumulation behavior.
type Config struct {
	// Threshold is the number of results that triggers a flush.
	Threshold int
	// TopMatches caps the jobs rendered into the report.
	TopMatches int
	// SessionTimeout bounds how long a session may accumulate before a
	// forced flush with whatever has arrived.
	SessionTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 {
		c.Threshold = defaultThreshold
	}
	if c.TopMatches <= 0 {
		c.TopMatches = defaultTopMatches
	}
	if c.SessionTimeout <= 0 {
		c.SessionTimeout = defaultSessionTimeout
	}
	return c
}

// session is the per-candidate accumulation state. It exists from the first
// result until the flush that consumes it.
type session struct {
	candidateID string
	results     []*score.Result
	createdAt   time.Time
}

// Accumulator owns the session table. All session access goes through the
// mutex, so a flush removes the session atomically with respect to appends
// for the same candidate: no double flush, no lost result.
type Accumulator struct {
	mu       sync.Mutex
	sessions map[string]*session

	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewAccumulator(cfg Config, logger *zap.Logger) *Accumulator {
	return &Accumulator{
		sessions: make(map[string]*session),
		cfg:      cfg.withDefaults(),
		logger:   logger,
		now:      time.Now,
	}
}

// Add appends a result to the candidate's session, creating it on first
// contact. When the session reaches the configured threshold the report is
// rendered, the session is deleted and the report returned with true.
func (a *Accumulator) Add(result *score.Result) (*Report, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[result.CandidateID]
	if !ok {
		s = &session{candidateID: result.CandidateID, createdAt: a.now()}
		a.sessions[result.CandidateID] = s
	}

	s.results = append(s.results, result)

	a.logger.Debug("result accumulated",
		zap.String("candidate_id", result.CandidateID),
		zap.Int("collected", len(s.results)),
		zap.Int("threshold", a.cfg.Threshold),
	)

	if len(s.results) < a.cfg.Threshold {
		return nil, false
	}

	return a.flushLocked(s), true
}

// Flush forces the candidate's session out regardless of how much has
// accumulated. Used when the input stream ends below the threshold.
func (a *Accumulator) Flush(candidateID string) (*Report, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[candidateID]
	if !ok {
		return nil, false
	}

	return a.flushLocked(s), true
}

// FlushExpired flushes every session older than the session timeout and
// returns the rendered reports.
func (a *Accumulator) FlushExpired() []*Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := a.now().Add(-a.cfg.SessionTimeout)

	var reports []*Report
	for _, s := range a.sessions {
		if s.createdAt.After(cutoff) {
			continue
		}

		a.logger.Warn("session timed out, flushing partial results",
			zap.String("candidate_id", s.candidateID),
			zap.Int("collected", len(s.results)),
		)
		reports = append(reports, a.flushLocked(s))
	}

	return reports
}

// Start runs the timeout sweeper until the context is canceled. Timed-out
// reports are delivered on the returned channel, which closes on shutdown.
func (a *Accumulator) Start(ctx context.Context) <-chan *Report {
	out := make(chan *Report)

	go func() {
		defer close(out)

		ticker := time.NewTicker(defaultSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, report := range a.FlushExpired() {
					select {
					case out <- report:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}

// Pending reports how many results the candidate's session currently holds.
func (a *Accumulator) Pending(candidateID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[candidateID]
	if !ok {
		return 0
	}
	return len(s.results)
}

// flushLocked renders the report and removes the session. Callers hold the mutex.
func (a *Accumulator) flushLocked(s *session) *Report {
	report := Render(s.candidateID, s.results, a.cfg.TopMatches)
	delete(a.sessions, s.candidateID)

	a.logger.Info("recommendation report generated",
		zap.String("candidate_id", s.candidateID),
		zap.Int("results", len(s.results)),
		zap.Int("top_matches", len(report.TopMatches)),
	)

	return report
}
