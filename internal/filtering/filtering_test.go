package filtering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/jobs"
)

func TestRunChain(t *testing.T) {
	t.Parallel()

	postings := &jobs.Postings{Items: []*jobs.Posting{
		{Title: "Low", Company: "Acme", MatchScore: 0.05},
		{Title: "High", Company: "Acme", MatchScore: 0.9},
		{Title: "high", Company: "acme", MatchScore: 0.8},
		{Title: "Mid", Company: "Globex", MatchScore: 0.4},
		{Title: "Mid Two", Company: "Globex", MatchScore: 0.5},
	}}

	steps := []Filter{
		NewMinScore(0.15),
		NewDedupe(),
		NewRank(),
		NewCap(2),
	}

	out, err := Run(context.Background(), zap.NewNop(), steps, postings)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "High", out.Items[0].Title)
	assert.Equal(t, "Mid Two", out.Items[1].Title)
}

func TestMinScoreDisabledWithoutThreshold(t *testing.T) {
	t.Parallel()

	assert.False(t, NewMinScore(0).IsEnabled())
	assert.True(t, NewMinScore(0.2).IsEnabled())
}

func TestCapDisabledWithoutLimit(t *testing.T) {
	t.Parallel()

	assert.False(t, NewCap(0).IsEnabled())
	assert.True(t, NewCap(15).IsEnabled())
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	statuses := Describe([]Filter{NewMinScore(0.15), NewDedupe(), NewRank(), NewCap(15)})

	require.Len(t, statuses, 4)
	assert.Equal(t, "min_score", statuses[0].Name)
	assert.Equal(t, "0.15", statuses[0].Details["threshold"])
	assert.Equal(t, "dedupe", statuses[1].Name)
	assert.Nil(t, statuses[1].Details)
	assert.Equal(t, "15", statuses[3].Details["limit"])
}
