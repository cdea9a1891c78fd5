// Package aggregate fans out to every available job source concurrently and
// merges the results into one de-duplicated, ranked, capped posting list.
package aggregate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobmate/internal/filtering"
	"github.com/spigell/jobmate/internal/jobs"
	"github.com/spigell/jobmate/internal/profile"
	"github.com/spigell/jobmate/internal/source"
)

const (
	// querySkillCount bounds the skills sent to external sources.
	querySkillCount = 3
	// scoringSkillCount bounds the skills used for match scoring.
	scoringSkillCount = 5

	// The leading scoring skills weigh more than the remainder.
	primaryWeight   = 0.25
	secondaryWeight = 0.15

	defaultMinScore      = 0.15
	defaultTotalLimit    = 15
	defaultSourceTimeout = 10 * time.Second
)

// Config tunes the aggregation pass.
type Config struct {
	// MinScore drops postings below this match score, range (0, 1].
	MinScore float64
	// TotalLimit caps the final ranked list.
	TotalLimit int
	// SourceTimeout bounds each adapter fetch independently.
	SourceTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinScore <= 0 {
		c.MinScore = defaultMinScore
	}
	if c.TotalLimit <= 0 {
		c.TotalLimit = defaultTotalLimit
	}
	if c.SourceTimeout <= 0 {
		c.SourceTimeout = defaultSourceTimeout
	}
	return c
}

type Aggregator struct {
	sources []source.Source
	cfg     Config
	logger  *zap.Logger
}

func New(sources []source.Source, cfg Config, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// fetchResult is the explicit outcome of one adapter fetch. Failures are
// carried as values and turned into empty lists at the merge point.
type fetchResult struct {
	source   string
	postings *jobs.Postings
	err      error
}

// Aggregate queries every available source for the candidate and returns a
// scored, filtered, ranked and capped posting list. It never returns an
// empty list: when nothing survives, a single fallback posting summarizing
// the no-match state is synthesized instead.
func (a *Aggregator) Aggregate(ctx context.Context, p *profile.Profile) *jobs.Postings {
	query := source.Query{
		Skills:   p.QuerySkills(querySkillCount),
		Location: p.Location(),
	}
	scoring := p.ScoringSkills(scoringSkillCount)

	merged := a.fetchAll(ctx, query)

	for _, posting := range merged.Items {
		posting.MatchScore, posting.MatchedSkills = matchScore(posting.CombinedText(), scoring)
	}

	steps := []filtering.Filter{
		filtering.NewMinScore(a.cfg.MinScore),
		filtering.NewDedupe(),
		filtering.NewRank(),
		filtering.NewCap(a.cfg.TotalLimit),
	}

	refined, err := filtering.Run(ctx, a.logger, steps, merged)
	if err != nil {
		a.logger.Warn("filtering failed, keeping merged list", zap.Error(err))
		refined = merged
	}

	if refined.Len() == 0 {
		a.logger.Warn("no postings survived filtering, synthesizing fallback")
		refined = &jobs.Postings{Items: []*jobs.Posting{fallbackPosting(p)}}
	}

	for _, posting := range refined.Items {
		if posting.ID == "" {
			posting.ID = uuid.NewString()
		}
	}

	return refined
}

// fetchAll runs one bounded fetch per available source. A slow or failing
// adapter only loses its own results; the merge proceeds once every fetch
// has completed or timed out.
func (a *Aggregator) fetchAll(ctx context.Context, q source.Query) *jobs.Postings {
	available := make([]source.Source, 0, len(a.sources))
	for _, src := range a.sources {
		if !src.Available() {
			a.logger.Info("source not configured, skipping", zap.String("source", src.Name()))
			continue
		}
		available = append(available, src)
	}

	results := make([]fetchResult, len(available))

	g := &errgroup.Group{}
	for i, src := range available {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, a.cfg.SourceTimeout)
			defer cancel()

			postings, err := src.Fetch(fetchCtx, q)
			results[i] = fetchResult{source: src.Name(), postings: postings, err: err}
			return nil
		})
	}

	// Workers always return nil: failures live in the result slots.
	_ = g.Wait()

	merged := &jobs.Postings{}
	for _, result := range results {
		if result.err != nil {
			a.logger.Warn("source fetch failed, treating as empty",
				zap.String("source", result.source),
				zap.Error(result.err),
			)
			continue
		}

		a.logger.Info("source fetch completed",
			zap.String("source", result.source),
			zap.Int("count", result.postings.Len()),
		)
		merged.Append(result.postings.Items...)
	}

	return merged
}

// matchScore weighs the presence of the scoring skills in the posting text:
// the first three skills count 0.25 each, the remainder 0.15, clamped to 1.
func matchScore(text string, skills []string) (float64, []string) {
	score := 0.0
	var matched []string

	for i, skill := range skills {
		if i >= scoringSkillCount {
			break
		}
		if !strings.Contains(text, strings.ToLower(skill)) {
			continue
		}

		if i < querySkillCount {
			score += primaryWeight
		} else {
			score += secondaryWeight
		}
		matched = append(matched, skill)
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, matched
}

// fallbackPosting keeps the downstream pipeline simple when every source
// came back empty: one synthetic posting explains the no-match state.
func fallbackPosting(p *profile.Profile) *jobs.Posting {
	skills := p.ScoringSkills(scoringSkillCount)

	title := "Software Developer Position"
	if len(skills) > 0 {
		title = fmt.Sprintf("%s Developer Position", titleCase(skills[0]))
	}

	return &jobs.Posting{
		Title:        title,
		Company:      "Various Companies",
		Location:     "Remote",
		Description:  "We're currently aggregating job listings matching your profile. Please check back soon!",
		Salary:       "Competitive",
		Remote:       true,
		Source:       "fallback",
		MatchScore:   0.5,
		Requirements: skills,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
