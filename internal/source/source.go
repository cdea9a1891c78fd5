// Package source wraps external job-listing providers behind a uniform fetch
// contract. Every adapter applies the same local hygiene before returning:
// a recency window, a quick relevance pre-filter against the query skills and
// a per-source cap on returned postings.
package source

import (
	"context"
	"strings"
	"time"

	"github.com/spigell/jobmate/internal/jobs"
)

const (
	defaultRecencyDays    = 14
	defaultPerSourceLimit = 5

	// quickMatchSkills bounds the cheap relevance pre-filter to the
	// strongest query skills.
	quickMatchSkills = 3
)

// Query carries the ranked candidate skills and the location hint an adapter
// searches with. Only the leading skills are used for the remote query to
// bound external call volume.
type Query struct {
	Skills   []string
	Location string
}

// TopSkill returns the strongest query skill or a generic fallback term.
func (q Query) TopSkill() string {
	if len(q.Skills) > 0 && strings.TrimSpace(q.Skills[0]) != "" {
		return q.Skills[0]
	}
	return "software developer"
}

// Source is one external job provider. Available reports whether the adapter
// has everything it needs (credentials, endpoint) before any I/O happens;
// unavailable sources are never invoked.
type Source interface {
	Name() string
	Available() bool
	Fetch(ctx context.Context, q Query) (*jobs.Postings, error)
}

// FilterConfig tunes the local filters shared by all adapters.
type FilterConfig struct {
	RecencyDays    int
	PerSourceLimit int
}

func (c FilterConfig) withDefaults() FilterConfig {
	if c.RecencyDays <= 0 {
		c.RecencyDays = defaultRecencyDays
	}
	if c.PerSourceLimit <= 0 {
		c.PerSourceLimit = defaultPerSourceLimit
	}
	return c
}

func (c FilterConfig) window() time.Duration {
	return time.Duration(c.RecencyDays) * 24 * time.Hour
}

// recent reports whether a posting date falls inside the recency window.
// Absent or unparsable dates pass: a posting is dropped on age only when the
// source gives a date we can read.
func recent(dateStr string, window time.Duration, now time.Time) bool {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return true
	}

	// Sources report either a plain date or a full timestamp.
	if idx := strings.Index(dateStr, "T"); idx != -1 {
		if ts, err := time.Parse(time.RFC3339, dateStr); err == nil {
			return !ts.Before(now.Add(-window))
		}
		dateStr = dateStr[:idx]
	}

	ts, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return true
	}

	return !ts.Before(now.Add(-window))
}

// quickMatch is the cheap relevance pre-filter: at least one of the leading
// query skills must appear in the posting text.
func quickMatch(text string, skills []string) bool {
	lower := strings.ToLower(text)

	for i, skill := range skills {
		if i >= quickMatchSkills {
			break
		}
		if skill = strings.ToLower(strings.TrimSpace(skill)); skill == "" {
			continue
		}
		if strings.Contains(lower, skill) {
			return true
		}
	}
	return false
}

// orPlaceholder substitutes the placeholder for truly absent required fields.
func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return jobs.Placeholder
	}
	return s
}

// orNotSpecified substitutes the canonical missing-salary marker.
func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return jobs.NotSpecified
	}
	return s
}

// truncateDescription bounds free-text descriptions carried downstream.
func truncateDescription(s string) string {
	const limit = 500
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func containsRemote(text string) bool {
	return strings.Contains(strings.ToLower(text), "remote")
}
