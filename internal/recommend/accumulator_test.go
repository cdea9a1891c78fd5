package recommend

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/score"
)

func result(candidateID, jobID string, s float64) *score.Result {
	return &score.Result{
		JobID:       jobID,
		CandidateID: candidateID,
		Title:       "Backend Developer",
		Company:     "Acme",
		Score:       s,
	}
}

func TestAddFlushesExactlyAtThreshold(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator(Config{Threshold: 3}, zap.NewNop())

	report, done := acc.Add(result("c1", "j1", 70))
	assert.False(t, done)
	assert.Nil(t, report)

	report, done = acc.Add(result("c1", "j2", 80))
	assert.False(t, done)
	assert.Nil(t, report)
	assert.Equal(t, 2, acc.Pending("c1"))

	report, done = acc.Add(result("c1", "j3", 60))
	require.True(t, done)
	require.NotNil(t, report)
	assert.Equal(t, "c1", report.CandidateID)
	assert.Equal(t, []string{"j2", "j1", "j3"}, report.TopMatches)

	// Session is gone; a later lookup finds nothing.
	assert.Equal(t, 0, acc.Pending("c1"))
	_, ok := acc.Flush("c1")
	assert.False(t, ok)
}

func TestAddKeepsCandidatesIndependent(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator(Config{Threshold: 2}, zap.NewNop())

	_, done := acc.Add(result("c1", "j1", 70))
	assert.False(t, done)
	_, done = acc.Add(result("c2", "j2", 70))
	assert.False(t, done)

	report, done := acc.Add(result("c1", "j3", 70))
	require.True(t, done)
	assert.Equal(t, "c1", report.CandidateID)
	assert.Equal(t, 1, acc.Pending("c2"))
}

func TestFlushReturnsPartialSession(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator(Config{Threshold: 5}, zap.NewNop())

	acc.Add(result("c1", "j1", 70))
	acc.Add(result("c1", "j2", 90))

	report, ok := acc.Flush("c1")
	require.True(t, ok)
	assert.Equal(t, []string{"j2", "j1"}, report.TopMatches)
	assert.Equal(t, 0, acc.Pending("c1"))
}

func TestFlushExpiredUsesInjectedClock(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator(Config{Threshold: 5, SessionTimeout: time.Minute}, zap.NewNop())

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	acc.now = func() time.Time { return now }

	acc.Add(result("c1", "j1", 70))

	// Not yet expired.
	now = now.Add(30 * time.Second)
	assert.Empty(t, acc.FlushExpired())
	assert.Equal(t, 1, acc.Pending("c1"))

	now = now.Add(time.Minute)
	reports := acc.FlushExpired()
	require.Len(t, reports, 1)
	assert.Equal(t, "c1", reports[0].CandidateID)
	assert.Equal(t, 0, acc.Pending("c1"))
}

func TestAddIsSafeUnderConcurrency(t *testing.T) {
	t.Parallel()

	const (
		workers   = 8
		perWorker = 25
		threshold = 10
	)

	acc := NewAccumulator(Config{Threshold: threshold}, zap.NewNop())

	var (
		mu      sync.Mutex
		flushes int
		wg      sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				jobID := strconv.Itoa(w*perWorker + i)
				if _, done := acc.Add(result("c1", jobID, 50)); done {
					mu.Lock()
					flushes++
					mu.Unlock()
				}
			}
		}(w)
	}
	wg.Wait()

	// Every result lands in exactly one flush or the leftover session.
	assert.Equal(t, workers*perWorker/threshold, flushes)
	assert.Equal(t, 0, acc.Pending("c1"))
}
