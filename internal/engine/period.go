package engine

import (
	"time"
)

type PeriodKind string

const (
	Weekly  PeriodKind = "weekly"
	AllTime PeriodKind = "all_time"
)

// AllTimePeriodID identifies the single unbounded cumulative period.
const AllTimePeriodID = "all-time"

// Period is a scoring window. Weekly periods are half-open [StartAt, EndAt);
// the all-time period has no end.
type Period struct {
	ID      string     `json:"id"`
	Kind    PeriodKind `json:"kind"`
	StartAt time.Time  `json:"start_at"`
	EndAt   *time.Time `json:"end_at,omitempty"`
}

// Contains reports whether t falls inside the period's window.
func (p Period) Contains(t time.Time) bool {
	if t.Before(p.StartAt) {
		return false
	}
	return p.EndAt == nil || t.Before(*p.EndAt)
}

// Schedule derives the weekly windows from a fixed anchor. Window n covers
// [anchor+n*week, anchor+(n+1)*week).
type Schedule struct {
	Anchor time.Time
	Week   time.Duration
}

func (s Schedule) window(n int) Period {
	start := s.Anchor.Add(time.Duration(n) * s.Week)
	end := start.Add(s.Week)
	return Period{
		ID:      "week-" + start.UTC().Format("2006-01-02"),
		Kind:    Weekly,
		StartAt: start,
		EndAt:   &end,
	}
}

// WindowAt returns the weekly window containing t. It reports false for
// instants before the anchor: no weekly period exists there.
func (s Schedule) WindowAt(t time.Time) (Period, bool) {
	if t.Before(s.Anchor) {
		return Period{}, false
	}
	n := int(t.Sub(s.Anchor) / s.Week)
	return s.window(n), true
}

// Current returns the weekly window for now, clamping to the first window
// before the anchor so there is always exactly one current period.
func (s Schedule) Current(now time.Time) Period {
	if w, ok := s.WindowAt(now); ok {
		return w
	}
	return s.window(0)
}

// Next returns the window immediately after p.
func (s Schedule) Next(p Period) Period {
	n := int(p.StartAt.Sub(s.Anchor) / s.Week)
	return s.window(n + 1)
}

// WindowsThrough lists every weekly window from the anchor up to and
// including the one containing now. Used to rebuild state from the log.
func (s Schedule) WindowsThrough(now time.Time) []Period {
	current := s.Current(now)
	n := int(current.StartAt.Sub(s.Anchor)/s.Week) + 1
	windows := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		windows = append(windows, s.window(i))
	}
	return windows
}

// AllTimePeriod returns the unbounded cumulative period starting at the anchor.
func (s Schedule) AllTimePeriod() Period {
	return Period{
		ID:      AllTimePeriodID,
		Kind:    AllTime,
		StartAt: s.Anchor,
	}
}
