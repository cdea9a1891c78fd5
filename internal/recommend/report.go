package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/jobmate/internal/score"
)

// Report is the final artifact of one candidate session: the rendered text
// plus the job IDs it covers, best match first.
type Report struct {
	CandidateID string
	Text        string
	TopMatches  []string
	AvgScore    float64
}

// Render sorts the session results best-first and builds the report text for
// the leading topMatches jobs. The input slice is not modified.
func Render(candidateID string, results []*score.Result, topMatches int) *Report {
	ranked := make([]*score.Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topMatches {
		ranked = ranked[:topMatches]
	}

	report := &Report{CandidateID: candidateID}

	var b strings.Builder
	fmt.Fprintf(&b, "Job Recommendations for %s\n", candidateID)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 50))

	var total float64
	remote := 0
	for i, result := range ranked {
		report.TopMatches = append(report.TopMatches, result.JobID)
		total += result.Score
		if result.Remote {
			remote++
		}

		fmt.Fprintf(&b, "%d. %s at %s\n", i+1, result.Title, result.Company)
		fmt.Fprintf(&b, "   Compatibility: %.1f%% (%s match)\n", result.Score, score.Label(result.Score))
		fmt.Fprintf(&b, "   Salary: %s\n", result.SalaryRange)

		site := "on-site"
		if result.Remote {
			site = "remote"
		}
		fmt.Fprintf(&b, "   Location: %s (%s)\n", result.Location, site)

		if len(result.Strengths) > 0 {
			fmt.Fprintf(&b, "   Your strengths: %s\n", strings.Join(result.Strengths, ", "))
		}
		if len(result.SkillGaps) > 0 {
			fmt.Fprintf(&b, "   Skills to develop: %s\n", strings.Join(result.SkillGaps, ", "))
			for _, line := range learningPath(result.SkillGaps) {
				fmt.Fprintf(&b, "     - %s\n", line)
			}
		}
		if result.SourceURL != "" {
			fmt.Fprintf(&b, "   Apply: %s\n", result.SourceURL)
		}
		b.WriteString("\n")
	}

	if len(ranked) > 0 {
		report.AvgScore = total / float64(len(ranked))
	}

	fmt.Fprintf(&b, "Summary: %d matches shown, %d remote, average compatibility %.1f%%\n",
		len(ranked), remote, report.AvgScore)
	fmt.Fprintf(&b, "%s", closingRemark(report.AvgScore))

	report.Text = b.String()
	return report
}

// closingRemark mirrors the score tiers with session-level advice.
func closingRemark(avg float64) string {
	switch {
	case avg >= 80:
		return "Excellent matches found! These positions align strongly with your profile."
	case avg >= 60:
		return "Good matches found. Consider addressing the listed skill gaps to strengthen your applications."
	default:
		return "Moderate matches this round. Broadening your skill set or search criteria may surface stronger options."
	}
}
