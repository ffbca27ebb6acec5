package contest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fiucpc/arena/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWeights = config.Weights{Easy: 1, Medium: 2, Hard: 3}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProblemSet(t *testing.T) {
	path := writeFile(t, "problems.yaml", `
- letter: "B"
  title: "Graphs"
  difficulty: "Medium"
- letter: "A"
  title: "Warmup"
  difficulty: "Easy"
- letter: "C"
  title: "Strings"
  difficulty: "Hard"
`)

	set, err := LoadProblemSet(path, testWeights)
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"A", "B", "C"}, set.Letters(), "problems come back in letter order")

	b, ok := set.Get("B")
	require.True(t, ok)
	assert.Equal(t, 2, b.Weight, "weight stamped from difficulty")

	_, ok = set.Get("Z")
	assert.False(t, ok)
}

func TestLoadProblemSetRejectsDuplicateLetter(t *testing.T) {
	path := writeFile(t, "problems.yaml", `
- letter: "A"
  title: "One"
  difficulty: "Easy"
- letter: "A"
  title: "Two"
  difficulty: "Hard"
`)

	_, err := LoadProblemSet(path, testWeights)
	assert.ErrorContains(t, err, "duplicate problem letter")
}

func TestLoadProblemSetRejectsUnknownDifficulty(t *testing.T) {
	path := writeFile(t, "problems.yaml", `
- letter: "A"
  title: "One"
  difficulty: "Impossible"
`)

	_, err := LoadProblemSet(path, testWeights)
	assert.ErrorContains(t, err, "unknown difficulty")
}

func TestLoadProblemSetRejectsEmptySet(t *testing.T) {
	path := writeFile(t, "problems.yaml", `[]`)

	_, err := LoadProblemSet(path, testWeights)
	assert.ErrorContains(t, err, "empty")
}

func TestLoadRoster(t *testing.T) {
	path := writeFile(t, "roster.yaml", `
- username: "alice"
  display_name: "Alice Rivera"
  country: "US"
  university: "FIU"
- username: "bob"
`)

	roster, err := LoadRoster(path)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Alice Rivera", roster[0].DisplayName)
	assert.Equal(t, "bob", roster[1].Username)
}

func TestLoadRosterEmptyPathIsNoRoster(t *testing.T) {
	roster, err := LoadRoster("")
	require.NoError(t, err)
	assert.Nil(t, roster)
}

func TestLoadRosterRejectsMissingUsername(t *testing.T) {
	path := writeFile(t, "roster.yaml", `
- display_name: "Nobody"
`)

	_, err := LoadRoster(path)
	assert.ErrorContains(t, err, "no username")
}
