// Package score turns one posting and one candidate skill set into a bounded
// compatibility score with explained strengths and gaps. Scoring is a pure
// transformation: no I/O, no retries, nothing to fail.
package score

import (
	"fmt"
	"strings"

	"github.com/spigell/jobmate/internal/jobs"
)

const (
	// emptyRequirementsBase is the flat base score for postings that list
	// no requirements and carry no aggregator match score.
	emptyRequirementsBase = 75.0

	// Additive bonuses, each clamped so the total never exceeds 100.
	overlapBonusMax = 10.0
	remoteBonus     = 5.0
	salaryBonus     = 3.0

	// maxListed caps the strengths and gaps carried in the result;
	// maxInReasoning caps the lists rendered into the reasoning text.
	maxListed      = 10
	maxInReasoning = 5
)

// Result is the final compatibility verdict for one (job, candidate) pair.
// Posting fields are denormalized for downstream rendering.
type Result struct {
	JobID       string
	CandidateID string
	Title       string
	Company     string
	Score       float64
	Reasoning   string
	Strengths   []string
	SkillGaps   []string
	SalaryRange string
	Location    string
	Remote      bool
	SourceURL   string
}

// Score computes the compatibility of a posting with the candidate's skills.
// The base comes from the aggregator's match score when present, otherwise
// from requirement overlap. Bonuses for overlap, remote work and a known
// salary are added on top, with the running total clamped at 100.
func Score(posting *jobs.Posting, candidateID string, skills []string) *Result {
	matching, missing := splitRequirements(posting.Requirements, skills)

	base := baseScore(posting, matching)
	total := clamp(base)

	var overlap float64
	if len(posting.Requirements) > 0 {
		ratio := float64(len(matching)) / float64(len(posting.Requirements))
		overlap = min(2*overlapBonusMax*ratio, overlapBonusMax)
		total = clamp(total + overlap)
	}

	if posting.Remote {
		total = clamp(total + remoteBonus)
	}

	salaryKnown := posting.Salary != "" && posting.Salary != jobs.NotSpecified
	if salaryKnown {
		total = clamp(total + salaryBonus)
	}

	result := &Result{
		JobID:       posting.ID,
		CandidateID: candidateID,
		Title:       posting.Title,
		Company:     posting.Company,
		Score:       total,
		Strengths:   capList(matching, maxListed),
		SkillGaps:   capList(missing, maxListed),
		SalaryRange: posting.Salary,
		Location:    posting.Location,
		Remote:      posting.Remote,
		SourceURL:   posting.URL,
	}
	result.Reasoning = reasoning(posting, result, matching, missing)

	return result
}

// Label maps a compatibility score to its qualitative tier.
func Label(score float64) string {
	switch {
	case score >= 80:
		return "strong"
	case score >= 60:
		return "good"
	default:
		return "moderate"
	}
}

// splitRequirements partitions the posting requirements into matched and
// missing. A requirement matches a candidate skill when either string is a
// case-insensitive substring of the other. The rule is deliberately loose;
// tightening it changes observable scores.
func splitRequirements(requirements, skills []string) (matching, missing []string) {
	for _, requirement := range requirements {
		reqLower := strings.ToLower(requirement)

		found := false
		for _, skill := range skills {
			skillLower := strings.ToLower(skill)
			if strings.Contains(reqLower, skillLower) || strings.Contains(skillLower, reqLower) {
				found = true
				break
			}
		}

		if found {
			matching = append(matching, requirement)
		} else {
			missing = append(missing, requirement)
		}
	}
	return matching, missing
}

func baseScore(posting *jobs.Posting, matching []string) float64 {
	if posting.MatchScore > 0 {
		return posting.MatchScore * 100
	}
	if len(posting.Requirements) > 0 {
		return float64(len(matching)) / float64(len(posting.Requirements)) * 100
	}
	return emptyRequirementsBase
}

func reasoning(posting *jobs.Posting, result *Result, matching, missing []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Match analysis: %s at %s\n", posting.Title, posting.Company)
	fmt.Fprintf(&b, "Overall compatibility: %.1f%%\n", result.Score)

	matched := "skill match detected in description"
	if len(matching) > 0 {
		matched = strings.Join(capList(matching, maxInReasoning), ", ")
	}
	fmt.Fprintf(&b, "Matching skills (%d/%d): %s\n", len(matching), len(posting.Requirements), matched)

	gaps := "none identified"
	if len(missing) > 0 {
		gaps = strings.Join(capList(missing, maxInReasoning), ", ")
	}
	fmt.Fprintf(&b, "Skill gaps (%d): %s\n", len(missing), gaps)

	fmt.Fprintf(&b, "Salary: %s\n", posting.Salary)

	site := "on-site"
	if posting.Remote {
		site = "remote"
	}
	fmt.Fprintf(&b, "Location: %s (%s)\n", posting.Location, site)

	fmt.Fprintf(&b, "Assessment: %s match", Label(result.Score))

	return b.String()
}

func clamp(score float64) float64 {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func capList(items []string, limit int) []string {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}
