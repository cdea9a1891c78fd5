package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeKeepsFirstSeenSource(t *testing.T) {
	t.Parallel()

	postings := &Postings{Items: []*Posting{
		{Title: "Backend Dev", Company: "Acme", Source: "adzuna"},
		{Title: "backend dev", Company: "ACME", Source: "remotive"},
		{Title: "Backend Dev", Company: "Globex", Source: "remotive"},
	}}

	dropped := postings.Dedupe()

	require.Equal(t, 2, postings.Len())
	assert.Equal(t, []string{"backend dev|acme"}, dropped)
	assert.Equal(t, "adzuna", postings.Items[0].Source)
}

func TestDedupeIsIdempotent(t *testing.T) {
	t.Parallel()

	postings := &Postings{Items: []*Posting{
		{Title: "Backend Dev", Company: "Acme"},
		{Title: "Backend Dev", Company: "Acme"},
		{Title: "SRE", Company: "Globex"},
	}}

	postings.Dedupe()
	first := make([]*Posting, len(postings.Items))
	copy(first, postings.Items)

	dropped := postings.Dedupe()

	assert.Empty(t, dropped)
	assert.Equal(t, first, postings.Items)
}

func TestSortByScoreIsStableAndDescending(t *testing.T) {
	t.Parallel()

	postings := &Postings{Items: []*Posting{
		{Title: "a", MatchScore: 0.3, Source: "first"},
		{Title: "b", MatchScore: 0.9},
		{Title: "c", MatchScore: 0.3, Source: "second"},
	}}

	postings.SortByScore()

	require.Equal(t, 3, postings.Len())
	assert.Equal(t, "b", postings.Items[0].Title)
	// Equal scores keep arrival order.
	assert.Equal(t, "first", postings.Items[1].Source)
	assert.Equal(t, "second", postings.Items[2].Source)

	for i := 1; i < postings.Len(); i++ {
		assert.GreaterOrEqual(t, postings.Items[i-1].MatchScore, postings.Items[i].MatchScore)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	postings := &Postings{Items: []*Posting{{Title: "a"}, {Title: "b"}, {Title: "c"}}}

	postings.Truncate(0)
	assert.Equal(t, 3, postings.Len())

	postings.Truncate(2)
	assert.Equal(t, 2, postings.Len())
	assert.Equal(t, "a", postings.Items[0].Title)
}

func TestCombinedTextIncludesRequirements(t *testing.T) {
	t.Parallel()

	posting := &Posting{
		Title:        "Senior Go Developer",
		Description:  "Build APIs",
		Requirements: []string{"Kubernetes", "PostgreSQL"},
	}

	text := posting.CombinedText()
	assert.Contains(t, text, "senior go developer")
	assert.Contains(t, text, "kubernetes")
	assert.Contains(t, text, "postgresql")
}
