package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/jobs"
	"github.com/spigell/jobmate/internal/profile"
	"github.com/spigell/jobmate/internal/source"
)

type stubSource struct {
	name      string
	available bool
	postings  []*jobs.Posting
	err       error
	delay     time.Duration
	invoked   bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Available() bool { return s.available }

func (s *stubSource) Fetch(ctx context.Context, _ source.Query) (*jobs.Postings, error) {
	s.invoked = true

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	if s.err != nil {
		return nil, s.err
	}
	return &jobs.Postings{Items: s.postings}, nil
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		CandidateID: "c1",
		Skills:      []string{"python", "aws", "docker"},
	}
}

func TestAggregateMergesRanksAndCaps(t *testing.T) {
	t.Parallel()

	first := &stubSource{name: "one", available: true, postings: []*jobs.Posting{
		{Title: "Python Dev", Company: "Acme", Description: "python aws docker", Source: "one"},
		{Title: "Accountant", Company: "Globex", Description: "ledgers", Source: "one"},
	}}
	second := &stubSource{name: "two", available: true, postings: []*jobs.Posting{
		{Title: "python dev", Company: "ACME", Description: "python aws docker", Source: "two"},
		{Title: "AWS Engineer", Company: "Initech", Description: "aws", Source: "two"},
	}}

	agg := New([]source.Source{first, second}, Config{}, zap.NewNop())
	postings := agg.Aggregate(context.Background(), testProfile())

	// Irrelevant posting filtered, duplicate collapsed to first-seen source.
	require.Equal(t, 2, postings.Len())
	assert.Equal(t, "Python Dev", postings.Items[0].Title)
	assert.Equal(t, "one", postings.Items[0].Source)
	assert.Equal(t, "AWS Engineer", postings.Items[1].Title)

	for _, posting := range postings.Items {
		assert.NotEmpty(t, posting.ID)
		assert.GreaterOrEqual(t, posting.MatchScore, 0.0)
		assert.LessOrEqual(t, posting.MatchScore, 1.0)
	}
}

func TestAggregateIsolatesFailures(t *testing.T) {
	t.Parallel()

	failing := &stubSource{name: "broken", available: true, err: errors.New("boom")}
	slow := &stubSource{name: "slow", available: true, delay: time.Second, postings: []*jobs.Posting{
		{Title: "Never", Company: "Arrives"},
	}}
	healthy := &stubSource{name: "ok", available: true, postings: []*jobs.Posting{
		{Title: "Python Dev", Company: "Acme", Description: "python", Source: "ok"},
	}}

	agg := New([]source.Source{failing, slow, healthy}, Config{SourceTimeout: 50 * time.Millisecond}, zap.NewNop())
	postings := agg.Aggregate(context.Background(), testProfile())

	require.Equal(t, 1, postings.Len())
	assert.Equal(t, "Python Dev", postings.Items[0].Title)
}

func TestAggregateSkipsUnavailableSources(t *testing.T) {
	t.Parallel()

	unavailable := &stubSource{name: "no-creds", available: false}
	healthy := &stubSource{name: "ok", available: true, postings: []*jobs.Posting{
		{Title: "Python Dev", Company: "Acme", Description: "python", Source: "ok"},
	}}

	agg := New([]source.Source{unavailable, healthy}, Config{}, zap.NewNop())
	agg.Aggregate(context.Background(), testProfile())

	assert.False(t, unavailable.invoked)
	assert.True(t, healthy.invoked)
}

func TestAggregateSynthesizesFallback(t *testing.T) {
	t.Parallel()

	empty := &stubSource{name: "empty", available: true}

	agg := New([]source.Source{empty}, Config{}, zap.NewNop())
	postings := agg.Aggregate(context.Background(), testProfile())

	require.Equal(t, 1, postings.Len())
	posting := postings.Items[0]
	assert.Equal(t, "Python Developer Position", posting.Title)
	assert.Equal(t, "fallback", posting.Source)
	assert.Equal(t, 0.5, posting.MatchScore)
	assert.NotEmpty(t, posting.ID)
}

func TestAggregateRespectsTotalLimit(t *testing.T) {
	t.Parallel()

	var items []*jobs.Posting
	for i := 0; i < 30; i++ {
		items = append(items, &jobs.Posting{
			Title:       string(rune('a' + i)),
			Company:     "Acme",
			Description: "python",
		})
	}
	src := &stubSource{name: "big", available: true, postings: items}

	agg := New([]source.Source{src}, Config{TotalLimit: 12}, zap.NewNop())
	postings := agg.Aggregate(context.Background(), testProfile())

	assert.Equal(t, 12, postings.Len())
}

func TestMatchScoreWeights(t *testing.T) {
	t.Parallel()

	skills := []string{"python", "aws", "docker", "sql", "react"}

	tests := []struct {
		name    string
		text    string
		score   float64
		matched []string
	}{
		{
			name:    "no match",
			text:    "accounting role",
			score:   0,
			matched: nil,
		},
		{
			name:    "single primary skill",
			text:    "python shop",
			score:   0.25,
			matched: []string{"python"},
		},
		{
			name:    "secondary skills weigh less",
			text:    "sql and react",
			score:   0.3,
			matched: []string{"sql", "react"},
		},
		{
			name:    "all skills clamp to one",
			text:    "python aws docker sql react",
			score:   1.0,
			matched: skills,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, matched := matchScore(tt.text, skills)
			assert.InDelta(t, tt.score, score, 1e-9)
			assert.Equal(t, tt.matched, matched)
		})
	}
}
