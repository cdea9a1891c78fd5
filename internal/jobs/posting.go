package jobs

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// NotSpecified is the canonical placeholder for a missing salary.
	NotSpecified = "Not specified"
	// Placeholder substitutes truly absent required fields such as title or company.
	Placeholder = "N/A"
)

// Posting is a single job posting as returned by a source adapter. It is
// transient: adapters produce it, the aggregator scores it and the scorer
// consumes it. Nothing here is persisted.
type Posting struct {
	ID            string
	Title         string
	Company       string
	Location      string
	Description   string
	URL           string
	Salary        string
	Remote        bool
	PostedAt      string
	Source        string
	MatchScore    float64
	MatchedSkills []string
	Requirements  []string
}

type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) Append(items ...*Posting) {
	p.Items = append(p.Items, items...)
}

// CombinedText returns the lowercased searchable text of the posting:
// title, description and requirement tokens joined together.
func (po *Posting) CombinedText() string {
	parts := make([]string, 0, 2+len(po.Requirements))
	parts = append(parts, po.Title, po.Description)
	parts = append(parts, po.Requirements...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Key is the deduplication key: lowercased title and company.
func (po *Posting) Key() string {
	return fmt.Sprintf("%s|%s", strings.ToLower(strings.TrimSpace(po.Title)), strings.ToLower(strings.TrimSpace(po.Company)))
}

// Dedupe removes postings sharing a key with an earlier entry, keeping the
// first occurrence and its source attribution. Returns the dropped keys.
func (p *Postings) Dedupe() []string {
	seen := make(map[string]bool, len(p.Items))
	kept := make([]*Posting, 0, len(p.Items))
	var dropped []string

	for _, posting := range p.Items {
		key := posting.Key()
		if seen[key] {
			dropped = append(dropped, key)
			continue
		}
		seen[key] = true
		kept = append(kept, posting)
	}

	p.Items = kept
	return dropped
}

// SortByScore orders postings by descending match score. The sort is stable:
// ties keep their arrival order.
func (p *Postings) SortByScore() {
	sort.SliceStable(p.Items, func(i, j int) bool {
		return p.Items[i].MatchScore > p.Items[j].MatchScore
	})
}

// Truncate caps the list at n postings. Non-positive n leaves it untouched.
func (p *Postings) Truncate(n int) {
	if n <= 0 || len(p.Items) <= n {
		return
	}
	p.Items = p.Items[:n]
}

// BySource groups posting counts per source identifier.
func (p *Postings) BySource() map[string]int {
	counts := make(map[string]int)
	for _, posting := range p.Items {
		counts[posting.Source]++
	}
	return counts
}
