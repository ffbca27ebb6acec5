package engine

import (
	"sort"
	"time"

	"github.com/fiucpc/arena/internal/config"
	"github.com/fiucpc/arena/internal/contest"
)

// RankEntry is one row of a published leaderboard snapshot. Weekly entries
// carry the per-problem solved matrix; all-time entries carry the difficulty
// breakdown instead.
type RankEntry struct {
	Rank             int             `json:"rank"`
	Username         string          `json:"username"`
	Score            int             `json:"score"`
	ProblemsSolved   int             `json:"problems_solved"`
	Solved           map[string]bool `json:"solved,omitempty"`
	Breakdown        *Breakdown      `json:"breakdown,omitempty"`
	FirstFullSolveAt time.Time       `json:"-"`
}

func (e RankEntry) sameStanding(o RankEntry) bool {
	return e.Score == o.Score &&
		e.ProblemsSolved == o.ProblemsSolved &&
		e.FirstFullSolveAt.Equal(o.FirstFullSolveAt)
}

// Rank orders score records into a leaderboard. Sort key: score desc,
// problems solved desc, first-full-solve asc, username asc. The username key
// guarantees a total order; the first three encode the fairness rule.
// Standard competition ranking is applied afterwards: entries with an
// identical standing share a rank and the next distinct entry takes its
// 1-based position, so rank sequences like 1,2,2,4 are expected.
func Rank(kind PeriodKind, records []ScoreRecord, policy config.AllTimePolicy, set *contest.ProblemSet) []RankEntry {
	entries := make([]RankEntry, 0, len(records))
	for _, rec := range records {
		entry := RankEntry{
			Username:         rec.Username,
			Score:            rec.ScoreFor(policy),
			ProblemsSolved:   rec.ProblemsSolved(),
			FirstFullSolveAt: rec.FirstFullSolveAt,
		}
		switch kind {
		case Weekly:
			solved := make(map[string]bool, set.Len())
			for _, letter := range set.Letters() {
				_, ok := rec.Solved[letter]
				solved[letter] = ok
			}
			entry.Solved = solved
		case AllTime:
			b := rec.Breakdown
			entry.Breakdown = &b
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ProblemsSolved != b.ProblemsSolved {
			return a.ProblemsSolved > b.ProblemsSolved
		}
		if !a.FirstFullSolveAt.Equal(b.FirstFullSolveAt) {
			// Earlier finisher ranks higher; a zero time means no solve yet
			// and sorts last.
			if a.FirstFullSolveAt.IsZero() {
				return false
			}
			if b.FirstFullSolveAt.IsZero() {
				return true
			}
			return a.FirstFullSolveAt.Before(b.FirstFullSolveAt)
		}
		return a.Username < b.Username
	})

	for i := range entries {
		if i > 0 && entries[i].sameStanding(entries[i-1]) {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}
