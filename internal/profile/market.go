package profile

import "sort"

// marketDemand is a small static demand signal per skill, used to put the
// skills employers ask for most in front of the query list. Skills missing
// from the table keep their original relative order with weight zero.
var marketDemand = map[string]int{
	"python":             3,
	"javascript":         3,
	"typescript":         2,
	"react":              3,
	"node.js":            2,
	"machine learning":   3,
	"deep learning":      2,
	"data science":       2,
	"tensorflow":         2,
	"pytorch":            2,
	"aws":                3,
	"azure":              2,
	"gcp":                2,
	"docker":             3,
	"kubernetes":         3,
	"terraform":          2,
	"ci/cd":              2,
	"sql":                2,
	"postgresql":         2,
	"mongodb":            1,
	"redis":              1,
	"go":                 2,
	"rust":               1,
	"java":               2,
	"leadership":         3,
	"project management": 2,
	"agile":              1,
}

// RankByDemand stably reorders skills by descending market demand. Skills
// with equal demand, including unknown ones, keep their input order.
func RankByDemand(skills []string) []string {
	ranked := make([]string, len(skills))
	copy(ranked, skills)

	sort.SliceStable(ranked, func(i, j int) bool {
		return marketDemand[ranked[i]] > marketDemand[ranked[j]]
	})

	return ranked
}

// DemandWeight reports the demand signal for a skill, zero when unknown.
func DemandWeight(skill string) int {
	return marketDemand[skill]
}
