package engine

import (
	"testing"
	"time"

	"github.com/fiucpc/arena/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(username string, score, easy, medium, hard int, firstFull time.Time) ScoreRecord {
	return ScoreRecord{
		Username:         username,
		Score:            score,
		Breakdown:        Breakdown{Easy: easy, Medium: medium, Hard: hard},
		FirstFullSolveAt: firstFull,
	}
}

func usernames(entries []RankEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Username
	}
	return out
}

func TestRankHigherScoreWins(t *testing.T) {
	set := testProblemSet()
	records := []ScoreRecord{
		rec("alice", 1, 1, 0, 0, at(3)),
		rec("bob", 3, 0, 0, 1, at(30)),
	}

	entries := Rank(Weekly, records, config.PolicyWeighted, set)

	assert.Equal(t, []string{"bob", "alice"}, usernames(entries))
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestRankMoreProblemsBreaksScoreTie(t *testing.T) {
	set := testProblemSet()
	records := []ScoreRecord{
		rec("alice", 3, 0, 0, 1, at(5)), // one hard problem
		rec("bob", 3, 1, 1, 0, at(40)),  // easy plus medium
	}

	entries := Rank(Weekly, records, config.PolicyWeighted, set)

	assert.Equal(t, []string{"bob", "alice"}, usernames(entries))
}

func TestRankEarlierFullSolveBreaksTie(t *testing.T) {
	set := testProblemSet()
	records := []ScoreRecord{
		rec("alice", 1, 1, 0, 0, at(10)),
		rec("bob", 1, 1, 0, 0, at(8)),
	}

	entries := Rank(Weekly, records, config.PolicyWeighted, set)

	assert.Equal(t, []string{"bob", "alice"}, usernames(entries))
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestRankZeroSolveTimeSortsLast(t *testing.T) {
	set := testProblemSet()
	records := []ScoreRecord{
		{Username: "idle"},
		{Username: "idle2"},
	}
	records[0].FirstFullSolveAt = time.Time{}
	records[1].FirstFullSolveAt = time.Time{}

	entries := Rank(Weekly, records, config.PolicyWeighted, set)

	// Equal standings all the way down: username decides the order, rank is
	// shared.
	assert.Equal(t, []string{"idle", "idle2"}, usernames(entries))
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank)
}

func TestRankCompetitionRanking(t *testing.T) {
	set := testProblemSet()
	records := []ScoreRecord{
		rec("dora", 6, 0, 0, 2, at(50)),
		rec("alice", 3, 0, 0, 1, at(20)),
		rec("bob", 3, 0, 0, 1, at(20)),
		rec("carol", 1, 1, 0, 0, at(90)),
	}

	entries := Rank(Weekly, records, config.PolicyWeighted, set)

	require.Len(t, entries, 4)
	assert.Equal(t, []string{"dora", "alice", "bob", "carol"}, usernames(entries))
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 2, entries[2].Rank)
	assert.Equal(t, 4, entries[3].Rank)
}

func TestRankWeeklyCarriesSolvedMatrix(t *testing.T) {
	set := testProblemSet()
	records := []ScoreRecord{
		{
			Username:         "alice",
			Score:            3,
			Breakdown:        Breakdown{Easy: 1, Medium: 1},
			Solved:           map[string]time.Time{"A": at(1), "B": at(2)},
			FirstFullSolveAt: at(2),
		},
	}

	entries := Rank(Weekly, records, config.PolicyWeighted, set)

	require.Len(t, entries, 1)
	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": false}, entries[0].Solved)
	assert.Nil(t, entries[0].Breakdown)
}

func TestRankAllTimeCarriesBreakdown(t *testing.T) {
	set := testProblemSet()
	records := []ScoreRecord{
		rec("alice", 5, 2, 0, 1, at(7)),
	}

	entries := Rank(AllTime, records, config.PolicyWeighted, set)

	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Solved)
	require.NotNil(t, entries[0].Breakdown)
	assert.Equal(t, Breakdown{Easy: 2, Hard: 1}, *entries[0].Breakdown)
}

func TestRankCountPolicyReordersAllTime(t *testing.T) {
	set := testProblemSet()
	records := []ScoreRecord{
		rec("hardsolver", 6, 0, 0, 2, at(10)), // 2 problems, 6 points
		rec("grinder", 4, 4, 0, 0, at(10)),    // 4 problems, 4 points
	}

	weighted := Rank(AllTime, records, config.PolicyWeighted, set)
	assert.Equal(t, []string{"hardsolver", "grinder"}, usernames(weighted))

	byCount := Rank(AllTime, records, config.PolicyCount, set)
	assert.Equal(t, []string{"grinder", "hardsolver"}, usernames(byCount))
	assert.Equal(t, 4, byCount[0].Score)
}
