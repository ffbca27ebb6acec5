package engine

import (
	"time"

	"github.com/fiucpc/arena/internal/config"
	"github.com/fiucpc/arena/internal/contest"
	"github.com/fiucpc/arena/internal/database/models"
)

// Breakdown counts solved problems per difficulty.
type Breakdown struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

func (b Breakdown) Total() int {
	return b.Easy + b.Medium + b.Hard
}

func (b Breakdown) Plus(o Breakdown) Breakdown {
	return Breakdown{
		Easy:   b.Easy + o.Easy,
		Medium: b.Medium + o.Medium,
		Hard:   b.Hard + o.Hard,
	}
}

func (b *Breakdown) count(d contest.Difficulty) {
	switch d {
	case contest.Easy:
		b.Easy++
	case contest.Medium:
		b.Medium++
	case contest.Hard:
		b.Hard++
	}
}

// ScoreRecord is a user's derived standing within one period. It is never
// stored: identical event sequences always reproduce identical records, which
// is what crash recovery via replay relies on.
type ScoreRecord struct {
	Username string
	PeriodID string

	// Solved maps problem letter to the time of the first Accepted verdict.
	// Only weekly records carry it; folded all-time records keep counts only,
	// since letters are reused across weeks.
	Solved map[string]time.Time

	// Score is the weighted point sum.
	Score     int
	Breakdown Breakdown

	// FirstFullSolveAt is the submission time that completed the last problem
	// currently solved. Earlier is better in tie-breaks.
	FirstFullSolveAt time.Time
}

func (r ScoreRecord) ProblemsSolved() int {
	return r.Breakdown.Total()
}

// ScoreFor resolves the ranking score under the given all-time policy.
// Weekly ranking always uses the weighted sum.
func (r ScoreRecord) ScoreFor(policy config.AllTimePolicy) int {
	if policy == config.PolicyCount {
		return r.Breakdown.Total()
	}
	return r.Score
}

// ZeroRecord is the empty standing a roster participant holds before their
// first accepted submission of a period.
func ZeroRecord(username, periodID string) ScoreRecord {
	return ScoreRecord{
		Username: username,
		PeriodID: periodID,
		Solved:   map[string]time.Time{},
	}
}

// ComputeScore derives a user's record from their event sequence for one
// period. Pure: it reads nothing but its arguments. Events must already be
// ordered by submission time; only the first Accepted verdict per problem
// counts, so duplicate accepts are idempotent.
func ComputeScore(username, periodID string, events []models.SubmissionEvent, set *contest.ProblemSet) ScoreRecord {
	rec := ZeroRecord(username, periodID)
	for _, ev := range events {
		if ev.Verdict != models.VerdictAccepted {
			continue
		}
		problem, ok := set.Get(ev.ProblemLetter)
		if !ok {
			continue
		}
		if _, solved := rec.Solved[ev.ProblemLetter]; solved {
			continue
		}
		rec.Solved[ev.ProblemLetter] = ev.SubmittedAt
		rec.Score += problem.Weight
		rec.Breakdown.count(problem.Difficulty)
		rec.FirstFullSolveAt = ev.SubmittedAt
	}
	return rec
}

// FoldAllTime merges a finished (or in-flight) weekly record into an all-time
// base. The all-time score is the sum of per-period contributions, never a
// re-derivation from raw events.
func FoldAllTime(base, week ScoreRecord) ScoreRecord {
	out := ScoreRecord{
		Username:         base.Username,
		PeriodID:         AllTimePeriodID,
		Score:            base.Score + week.Score,
		Breakdown:        base.Breakdown.Plus(week.Breakdown),
		FirstFullSolveAt: base.FirstFullSolveAt,
	}
	if out.Username == "" {
		out.Username = week.Username
	}
	if week.FirstFullSolveAt.After(out.FirstFullSolveAt) {
		out.FirstFullSolveAt = week.FirstFullSolveAt
	}
	return out
}
