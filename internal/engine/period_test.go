package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchedule() Schedule {
	return Schedule{
		Anchor: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Week:   7 * 24 * time.Hour,
	}
}

func TestWindowAt(t *testing.T) {
	s := testSchedule()

	_, ok := s.WindowAt(s.Anchor.Add(-time.Second))
	assert.False(t, ok, "no window exists before the anchor")

	w, ok := s.WindowAt(s.Anchor)
	require.True(t, ok)
	assert.Equal(t, "week-2026-01-05", w.ID)
	assert.Equal(t, Weekly, w.Kind)

	w, ok = s.WindowAt(s.Anchor.Add(10*24*time.Hour + time.Minute))
	require.True(t, ok)
	assert.Equal(t, "week-2026-01-12", w.ID)
}

func TestPeriodContainsHalfOpen(t *testing.T) {
	s := testSchedule()
	w, _ := s.WindowAt(s.Anchor)

	assert.True(t, w.Contains(w.StartAt))
	assert.True(t, w.Contains(w.EndAt.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(*w.EndAt), "the end instant belongs to the next window")
	assert.False(t, w.Contains(w.StartAt.Add(-time.Nanosecond)))
}

func TestCurrentClampsBeforeAnchor(t *testing.T) {
	s := testSchedule()

	w := s.Current(s.Anchor.Add(-time.Hour))
	assert.Equal(t, "week-2026-01-05", w.ID)
}

func TestNext(t *testing.T) {
	s := testSchedule()
	w := s.Current(s.Anchor)

	next := s.Next(w)
	assert.Equal(t, "week-2026-01-12", next.ID)
	assert.Equal(t, *w.EndAt, next.StartAt)
}

func TestWindowsThrough(t *testing.T) {
	s := testSchedule()

	windows := s.WindowsThrough(s.Anchor.Add(15 * 24 * time.Hour))
	require.Len(t, windows, 3)
	assert.Equal(t, "week-2026-01-05", windows[0].ID)
	assert.Equal(t, "week-2026-01-12", windows[1].ID)
	assert.Equal(t, "week-2026-01-19", windows[2].ID)
}

func TestWindowIDsStayUniqueAtDayLengthWeeks(t *testing.T) {
	s := Schedule{
		Anchor: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Week:   24 * time.Hour,
	}

	seen := map[string]bool{}
	for _, w := range s.WindowsThrough(s.Anchor.Add(14 * 24 * time.Hour)) {
		assert.False(t, seen[w.ID], "duplicate window id %s", w.ID)
		seen[w.ID] = true
	}
}

func TestAllTimePeriod(t *testing.T) {
	s := testSchedule()

	p := s.AllTimePeriod()
	assert.Equal(t, AllTimePeriodID, p.ID)
	assert.Equal(t, AllTime, p.Kind)
	assert.Nil(t, p.EndAt)
	assert.True(t, p.Contains(s.Anchor.Add(1000*24*time.Hour)))
}
