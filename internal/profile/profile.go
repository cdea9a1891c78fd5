// Package profile holds the candidate profile consumed by the matching
// pipeline and the skill-list derivations the aggregator queries with.
package profile

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const defaultLocation = "United States"

// Preferences capture what the candidate wants from a position.
type Preferences struct {
	Remote             bool   `mapstructure:"remote"`
	SalaryMin          int    `mapstructure:"salary-min"`
	LocationPreference string `mapstructure:"location-preference"`
}

// Profile is the immutable candidate profile. Skills are ordered, may contain
// duplicates and are matched case-insensitively downstream.
type Profile struct {
	CandidateID     string      `mapstructure:"candidate-id"`
	Skills          []string    `mapstructure:"skills"`
	ExperienceYears int         `mapstructure:"experience-years"`
	Preferences     Preferences `mapstructure:"preferences"`
}

// Load reads a candidate profile from the given yaml file.
func Load(path string) (*Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("parsing profile file: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *Profile) Validate() error {
	if strings.TrimSpace(p.CandidateID) == "" {
		return fmt.Errorf("candidate-id is required")
	}
	if len(p.Skills) == 0 {
		return fmt.Errorf("at least one skill is required")
	}
	if p.ExperienceYears < 0 {
		return fmt.Errorf("experience-years must not be negative")
	}
	return nil
}

// QuerySkills returns the top-n skills used for querying external sources:
// lowercased, order-preserving deduplicated and re-ranked so skills with a
// known market-demand signal come first.
func (p *Profile) QuerySkills(n int) []string {
	skills := RankByDemand(dedupeSkills(p.Skills))
	if n > 0 && len(skills) > n {
		skills = skills[:n]
	}
	return skills
}

// ScoringSkills returns the top-n skills used for match scoring:
// lowercased, order-preserving deduplicated, original ranking kept.
func (p *Profile) ScoringSkills(n int) []string {
	skills := dedupeSkills(p.Skills)
	if n > 0 && len(skills) > n {
		skills = skills[:n]
	}
	return skills
}

// Location resolves the search location hint. A "flexible" preference and an
// empty one both fall back to the default region.
func (p *Profile) Location() string {
	loc := strings.TrimSpace(p.Preferences.LocationPreference)
	if loc == "" || strings.EqualFold(loc, "flexible") {
		return defaultLocation
	}
	return loc
}

func dedupeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}
