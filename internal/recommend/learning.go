package recommend

import (
	"fmt"
	"strings"
)

// learningResources maps well-known skills to a concrete starting point.
// Unknown skills fall through to a generic course-search suggestion.
var learningResources = map[string]string{
	"python":     "Python.org tutorials, Real Python, or 'Automate the Boring Stuff'",
	"javascript": "MDN Web Docs, JavaScript.info, or freeCodeCamp",
	"react":      "Official React docs and the React beta tutorial",
	"aws":        "AWS Skill Builder and the Cloud Practitioner path",
	"docker":     "Docker's official Get Started guide",
	"kubernetes": "Kubernetes.io tutorials and 'Kubernetes the Hard Way'",
	"sql":        "SQLBolt and Mode's SQL tutorial",
	"go":         "A Tour of Go and 'Learn Go with Tests'",
	"rust":       "The Rust Book and Rustlings exercises",
	"typescript": "The TypeScript Handbook",
	"terraform":  "HashiCorp Learn's Terraform track",
	"java":       "Oracle's Java tutorials and 'Effective Java'",
	"leadership": "'The Manager's Path' and team lead shadowing",
	"ml":         "Andrew Ng's Machine Learning Specialization",
}

// maxLearningPaths bounds the gap suggestions rendered per job.
const maxLearningPaths = 3

// learningPath suggests one resource line per leading skill gap.
func learningPath(gaps []string) []string {
	var lines []string
	for _, gap := range gaps {
		if len(lines) >= maxLearningPaths {
			break
		}

		resource, ok := learningResources[strings.ToLower(gap)]
		if !ok {
			resource = fmt.Sprintf("Search for %s courses on Coursera or Udemy", gap)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", gap, resource))
	}
	return lines
}
