package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySkillsDedupesAndRanks(t *testing.T) {
	t.Parallel()

	p := &Profile{
		CandidateID: "c1",
		Skills:      []string{"Fortran", "Python", "python", "COBOL", "AWS"},
	}

	query := p.QuerySkills(3)

	// Known high-demand skills come first, duplicates collapse,
	// unknown skills keep input order after them.
	assert.Equal(t, []string{"python", "aws", "fortran"}, query)
}

func TestScoringSkillsPreservesOrder(t *testing.T) {
	t.Parallel()

	p := &Profile{
		CandidateID: "c1",
		Skills:      []string{"Fortran", "Python", "fortran", "AWS", "Docker", "SQL", "Go"},
	}

	scoring := p.ScoringSkills(5)

	assert.Equal(t, []string{"fortran", "python", "aws", "docker", "sql"}, scoring)
}

func TestLocationFallsBack(t *testing.T) {
	t.Parallel()

	p := &Profile{}
	assert.Equal(t, "United States", p.Location())

	p.Preferences.LocationPreference = "flexible"
	assert.Equal(t, "United States", p.Location())

	p.Preferences.LocationPreference = "Berlin"
	assert.Equal(t, "Berlin", p.Location())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.Error(t, (&Profile{Skills: []string{"go"}}).Validate())
	assert.Error(t, (&Profile{CandidateID: "c1"}).Validate())
	assert.Error(t, (&Profile{CandidateID: "c1", Skills: []string{"go"}, ExperienceYears: -1}).Validate())
	assert.NoError(t, (&Profile{CandidateID: "c1", Skills: []string{"go"}}).Validate())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	content := []byte(`candidate-id: c1
skills:
  - Python
  - AWS
experience-years: 5
preferences:
  remote: true
  salary-min: 100000
  location-preference: flexible
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "c1", p.CandidateID)
	assert.Equal(t, 5, p.ExperienceYears)
	assert.True(t, p.Preferences.Remote)
	assert.Equal(t, 100000, p.Preferences.SalaryMin)
	assert.Equal(t, "United States", p.Location())
}

func TestRankByDemandIsStable(t *testing.T) {
	t.Parallel()

	ranked := RankByDemand([]string{"zig", "elm", "python", "docker"})

	// python and docker share the top weight and keep relative order;
	// the unknown skills keep theirs.
	assert.Equal(t, []string{"python", "docker", "zig", "elm"}, ranked)
}
