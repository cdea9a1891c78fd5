package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/jobmate/internal/jobs"
)

type minScoreFilter struct {
	threshold float64
}

// NewMinScore creates a filter that drops postings scoring below the
// threshold. A non-positive threshold disables the filter.
func NewMinScore(threshold float64) Filter {
	return &minScoreFilter{threshold: threshold}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) IsEnabled() bool { return f.threshold > 0 }

func (f *minScoreFilter) Apply(_ context.Context, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()

	kept := make([]*jobs.Posting, 0, initial)
	for _, posting := range p.Items {
		if posting.MatchScore >= f.threshold {
			kept = append(kept, posting)
		}
	}
	p.Items = kept

	return p, Step{Initial: initial, Dropped: initial - p.Len(), Left: p.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Details: map[string]string{"threshold": fmt.Sprintf("%.2f", f.threshold)},
	}
}

type dedupeFilter struct{}

// NewDedupe creates a filter that removes postings sharing a normalized
// title and company with an earlier entry. The first occurrence wins.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) IsEnabled() bool { return true }

func (f *dedupeFilter) Apply(_ context.Context, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	dropped := p.Dedupe()

	return p, Step{Initial: initial, Dropped: len(dropped), Left: p.Len()}, nil
}

type rankFilter struct{}

// NewRank creates a step that stably orders postings by descending match
// score. It never drops anything.
func NewRank() Filter {
	return &rankFilter{}
}

func (f *rankFilter) Name() string { return "rank" }

func (f *rankFilter) IsEnabled() bool { return true }

func (f *rankFilter) Apply(_ context.Context, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	p.SortByScore()

	return p, Step{Initial: initial, Dropped: 0, Left: initial}, nil
}

type capFilter struct {
	limit int
}

// NewCap creates a filter that truncates the ranked list to the total cap.
func NewCap(limit int) Filter {
	return &capFilter{limit: limit}
}

func (f *capFilter) Name() string { return "cap" }

func (f *capFilter) IsEnabled() bool { return f.limit > 0 }

func (f *capFilter) Apply(_ context.Context, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	p.Truncate(f.limit)

	return p, Step{Initial: initial, Dropped: initial - p.Len(), Left: p.Len()}, nil
}

func (f *capFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Details: map[string]string{"limit": strconv.Itoa(f.limit)},
	}
}
