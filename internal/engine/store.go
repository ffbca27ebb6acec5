package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fiucpc/arena/internal/config"
	"github.com/fiucpc/arena/internal/contest"
	"github.com/fiucpc/arena/internal/database"
	"github.com/fiucpc/arena/internal/database/models"
	"github.com/fiucpc/arena/internal/pubsub"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxIngestRetries bounds how often an update is retried after losing a race
// with a rollover.
const maxIngestRetries = 3

// lane is the writer side of one period: a mutex-serialized record map plus
// the latest published snapshot. Readers never touch the mutex; they load the
// snapshot pointer, which is immutable once stored.
type lane struct {
	mu      sync.Mutex
	period  Period
	records map[string]ScoreRecord
	version uint64
	snap    atomic.Pointer[Snapshot]
}

// Store owns the derived leaderboard state for the current weekly period and
// the all-time period. Each period has its own writer lane; updates for the
// two periods may proceed in parallel, updates within one period are
// serialized. Lock order is always weekly before allTime.
type Store struct {
	db       *gorm.DB
	set      *contest.ProblemSet
	schedule Schedule
	policy   config.AllTimePolicy
	roster   []string

	now func() time.Time

	weekly  lane
	allTime lane
}

func NewStore(db *gorm.DB, set *contest.ProblemSet, schedule Schedule, policy config.AllTimePolicy, roster []string) *Store {
	s := &Store{
		db:       db,
		set:      set,
		schedule: schedule,
		policy:   policy,
		roster:   roster,
		now:      time.Now,
	}
	s.allTime.period = schedule.AllTimePeriod()
	s.allTime.records = make(map[string]ScoreRecord)
	s.weekly.period = schedule.Current(s.now())
	s.weekly.records = s.freshWeeklyRecords(s.weekly.period.ID)
	return s
}

// SetClock replaces the store's clock. Test hook; call before Rebuild.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Problems returns the immutable problem set the store scores against.
func (s *Store) Problems() *contest.ProblemSet {
	return s.set
}

// CurrentPeriod returns the weekly period the store is currently scoring.
func (s *Store) CurrentPeriod() Period {
	s.weekly.mu.Lock()
	defer s.weekly.mu.Unlock()
	return s.weekly.period
}

// Leaderboard returns the latest published snapshot for a period kind. It
// never blocks on recomputation.
func (s *Store) Leaderboard(kind PeriodKind) *Snapshot {
	switch kind {
	case Weekly:
		return s.weekly.snap.Load()
	case AllTime:
		return s.allTime.snap.Load()
	}
	return nil
}

// Ingest appends a judged submission event and updates both leaderboards.
// Out-of-window events are still appended (flagged, for the audit trail) and
// reported with ErrOutOfWindow. A lost race with a rollover is retried here;
// callers only ever see ErrRerankConflict if the retry budget runs out.
func (s *Store) Ingest(username, letter string, verdict models.Verdict, submittedAt time.Time) (*models.SubmissionEvent, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidSubmission)
	}
	if _, ok := s.set.Get(letter); !ok {
		return nil, fmt.Errorf("%w: unknown problem letter %q", ErrInvalidSubmission, letter)
	}
	switch verdict {
	case models.VerdictAccepted, models.VerdictRejected:
	default:
		return nil, fmt.Errorf("%w: unknown verdict %q", ErrInvalidSubmission, verdict)
	}

	var lastErr error
	for attempt := 0; attempt < maxIngestRetries; attempt++ {
		s.rolloverIfDue(s.now())

		// Resolve the scoring window before taking the lane; the lane
		// validates the resolution again under its lock.
		window, known := s.schedule.WindowAt(submittedAt)
		ev, err := s.update(username, letter, verdict, submittedAt, window, known, s.now())
		if err != nil && errors.Is(err, ErrRerankConflict) {
			lastErr = err
			zap.S().Warnf("submission for %s lost race with rollover, retrying: %v", username, err)
			continue
		}
		return ev, err
	}
	return nil, lastErr
}

// update is one serialized pass through the weekly writer lane, followed by
// the all-time republish.
func (s *Store) update(username, letter string, verdict models.Verdict, submittedAt time.Time, window Period, known bool, now time.Time) (*models.SubmissionEvent, error) {
	s.weekly.mu.Lock()
	current := s.weekly.period

	if !known || window.ID != current.ID {
		if known && window.StartAt.After(current.StartAt) && !now.Before(window.StartAt) {
			// The schedule has moved past the lane's period but the rollover
			// has not run yet; the caller retries after triggering it.
			s.weekly.mu.Unlock()
			return nil, fmt.Errorf("%w: window %s is ahead of lane period %s", ErrRerankConflict, window.ID, current.ID)
		}

		// Before the anchor, or inside an already-closed week. Keep the event
		// for the audit trail but never score it.
		ev := &models.SubmissionEvent{
			ID:            uuid.New().String(),
			Username:      username,
			ProblemLetter: letter,
			Verdict:       verdict,
			SubmittedAt:   submittedAt,
			Excluded:      true,
		}
		if known {
			ev.PeriodID = window.ID
		}
		err := database.AppendSubmissionEvent(s.db, ev)
		s.weekly.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return ev, fmt.Errorf("%w: %s at %s", ErrOutOfWindow, username, submittedAt.Format(time.RFC3339))
	}

	ev := &models.SubmissionEvent{
		ID:            uuid.New().String(),
		Username:      username,
		ProblemLetter: letter,
		PeriodID:      current.ID,
		Verdict:       verdict,
		SubmittedAt:   submittedAt,
	}
	if err := database.AppendSubmissionEvent(s.db, ev); err != nil {
		s.weekly.mu.Unlock()
		return nil, err
	}

	// Recompute only this user's record from the log; the rerank below is
	// global because one user's score change can shift every other rank.
	events, err := database.ReplayUserEvents(s.db, username, current.ID)
	if err != nil {
		s.weekly.mu.Unlock()
		return nil, err
	}
	s.weekly.records[username] = ComputeScore(username, current.ID, events, s.set)

	s.publishWeeklyLocked()
	weeklyCopy := s.copyWeeklyRecordsLocked()

	// Claim the all-time lane before releasing the weekly one, so all-time
	// snapshots publish in weekly-publish order and a stale copy can never
	// overwrite a newer one.
	s.allTime.mu.Lock()
	s.weekly.mu.Unlock()
	s.republishAllTimeLocked(weeklyCopy)
	s.allTime.mu.Unlock()
	return ev, nil
}

// rolloverIfDue closes the weekly period once its end has passed: the final
// records fold into the all-time base and a fresh week opens. The weekly lane
// is held for the whole transition, so no update can apply to a period that
// is mid-rollover. Returns whether a rollover happened.
func (s *Store) rolloverIfDue(now time.Time) bool {
	s.weekly.mu.Lock()

	rolled := false
	for s.weekly.period.EndAt != nil && !now.Before(*s.weekly.period.EndAt) {
		closing := s.weekly.period

		s.allTime.mu.Lock()
		for username, rec := range s.weekly.records {
			base, ok := s.allTime.records[username]
			if !ok {
				base = ScoreRecord{Username: username, PeriodID: AllTimePeriodID}
			}
			s.allTime.records[username] = FoldAllTime(base, rec)
		}
		s.allTime.mu.Unlock()

		next := s.schedule.Next(closing)
		s.weekly.period = next
		s.weekly.records = s.freshWeeklyRecords(next.ID)
		rolled = true
		zap.S().Infof("weekly period rolled over: %s -> %s", closing.ID, next.ID)
	}

	if !rolled {
		s.weekly.mu.Unlock()
		return false
	}

	s.publishWeeklyLocked()
	weeklyCopy := s.copyWeeklyRecordsLocked()

	s.allTime.mu.Lock()
	s.weekly.mu.Unlock()
	s.republishAllTimeLocked(weeklyCopy)
	s.allTime.mu.Unlock()
	return true
}

// Rollover forces a period-transition check now. Returns whether a weekly
// period was closed.
func (s *Store) Rollover() bool {
	return s.rolloverIfDue(s.now())
}

// RunRollover drives period transitions in the background until ctx is done.
func (s *Store) RunRollover(ctx context.Context) {
	for {
		s.weekly.mu.Lock()
		end := *s.weekly.period.EndAt
		s.weekly.mu.Unlock()

		wait := time.Until(end)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait + time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.rolloverIfDue(s.now())
		}
	}
}

// Rebuild recomputes all state from the event log: every closed weekly window
// folds into the all-time base and the current window becomes the live weekly
// records. Called once at startup before serving.
func (s *Store) Rebuild() error {
	now := s.now()
	windows := s.schedule.WindowsThrough(now)

	base := make(map[string]ScoreRecord)
	for _, w := range windows[:len(windows)-1] {
		events, err := database.ReplaySubmissionEvents(s.db, w.ID)
		if err != nil {
			return fmt.Errorf("replay %s: %w", w.ID, err)
		}
		for username, userEvents := range groupByUser(events) {
			rec := ComputeScore(username, w.ID, userEvents, s.set)
			b, ok := base[username]
			if !ok {
				b = ScoreRecord{Username: username, PeriodID: AllTimePeriodID}
			}
			base[username] = FoldAllTime(b, rec)
		}
	}

	current := windows[len(windows)-1]
	records := s.freshWeeklyRecords(current.ID)
	events, err := database.ReplaySubmissionEvents(s.db, current.ID)
	if err != nil {
		return fmt.Errorf("replay %s: %w", current.ID, err)
	}
	for username, userEvents := range groupByUser(events) {
		records[username] = ComputeScore(username, current.ID, userEvents, s.set)
	}

	s.weekly.mu.Lock()
	s.weekly.period = current
	s.weekly.records = records
	s.publishWeeklyLocked()
	weeklyCopy := s.copyWeeklyRecordsLocked()

	s.allTime.mu.Lock()
	s.weekly.mu.Unlock()
	s.allTime.records = base
	s.republishAllTimeLocked(weeklyCopy)
	s.allTime.mu.Unlock()

	zap.S().Infof("rebuilt state from log: %d weekly windows, current %s", len(windows), current.ID)
	return nil
}

// VerifyReplay recomputes both leaderboards from the log and compares them
// with the published snapshots. A divergence is a determinism bug: the caller
// must treat it as fatal, never reconcile. Holds both writer lanes.
func (s *Store) VerifyReplay() error {
	s.weekly.mu.Lock()
	defer s.weekly.mu.Unlock()
	s.allTime.mu.Lock()
	defer s.allTime.mu.Unlock()

	current := s.weekly.period
	records := s.freshWeeklyRecords(current.ID)
	events, err := database.ReplaySubmissionEvents(s.db, current.ID)
	if err != nil {
		return fmt.Errorf("replay %s: %w", current.ID, err)
	}
	for username, userEvents := range groupByUser(events) {
		records[username] = ComputeScore(username, current.ID, userEvents, s.set)
	}

	weeklySnap := s.weekly.snap.Load()
	recomputed := Rank(Weekly, recordList(records), config.PolicyWeighted, s.set)
	if weeklySnap == nil || !reflect.DeepEqual(recomputed, weeklySnap.Entries) {
		return fmt.Errorf("%w: weekly period %s", ErrReplayDivergence, current.ID)
	}

	base := make(map[string]ScoreRecord)
	for _, w := range s.schedule.WindowsThrough(s.now()) {
		if w.ID == current.ID {
			continue
		}
		closedEvents, err := database.ReplaySubmissionEvents(s.db, w.ID)
		if err != nil {
			return fmt.Errorf("replay %s: %w", w.ID, err)
		}
		for username, userEvents := range groupByUser(closedEvents) {
			rec := ComputeScore(username, w.ID, userEvents, s.set)
			b, ok := base[username]
			if !ok {
				b = ScoreRecord{Username: username, PeriodID: AllTimePeriodID}
			}
			base[username] = FoldAllTime(b, rec)
		}
	}

	allSnap := s.allTime.snap.Load()
	recomputedAll := Rank(AllTime, effectiveAllTime(base, records), s.policy, s.set)
	if allSnap == nil || !reflect.DeepEqual(recomputedAll, allSnap.Entries) {
		return fmt.Errorf("%w: all-time", ErrReplayDivergence)
	}
	return nil
}

// RunVerifier periodically re-derives the leaderboards from the log. Spotting
// a divergence halts the process: serving a snapshot that the log cannot
// reproduce is worse than crashing.
func (s *Store) RunVerifier(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.VerifyReplay(); err != nil {
				zap.S().Fatalf("replay verification failed: %v", err)
			}
			zap.S().Debug("replay verification passed")
		}
	}
}

// publishWeeklyLocked ranks the weekly records and publishes the next
// snapshot version. Caller holds the weekly lane.
func (s *Store) publishWeeklyLocked() {
	s.weekly.version++
	snap := &Snapshot{
		PeriodID:    s.weekly.period.ID,
		Kind:        Weekly,
		Version:     s.weekly.version,
		GeneratedAt: s.now(),
		Entries:     Rank(Weekly, recordList(s.weekly.records), config.PolicyWeighted, s.set),
	}
	s.weekly.snap.Store(snap)
	notifySnapshot(snap)
}

// republishAllTimeLocked merges the all-time base with a consistent copy of
// the current weekly records and publishes the next all-time snapshot. Caller
// holds the all-time lane, acquired before the weekly lane was released.
func (s *Store) republishAllTimeLocked(weeklyRecords map[string]ScoreRecord) {
	s.allTime.version++
	snap := &Snapshot{
		PeriodID:    AllTimePeriodID,
		Kind:        AllTime,
		Version:     s.allTime.version,
		GeneratedAt: s.now(),
		Entries:     Rank(AllTime, effectiveAllTime(s.allTime.records, weeklyRecords), s.policy, s.set),
	}
	s.allTime.snap.Store(snap)
	notifySnapshot(snap)
}

func (s *Store) freshWeeklyRecords(periodID string) map[string]ScoreRecord {
	records := make(map[string]ScoreRecord, len(s.roster))
	for _, username := range s.roster {
		records[username] = ZeroRecord(username, periodID)
	}
	return records
}

func (s *Store) copyWeeklyRecordsLocked() map[string]ScoreRecord {
	out := make(map[string]ScoreRecord, len(s.weekly.records))
	for username, rec := range s.weekly.records {
		out[username] = rec
	}
	return out
}

// effectiveAllTime is the all-time standing: closed-week base plus the
// current week's live contribution, over the union of both user sets.
func effectiveAllTime(base, weekly map[string]ScoreRecord) []ScoreRecord {
	out := make([]ScoreRecord, 0, len(base)+len(weekly))
	seen := make(map[string]bool, len(base)+len(weekly))
	for username, b := range base {
		week, ok := weekly[username]
		if !ok {
			week = ScoreRecord{Username: username}
		}
		out = append(out, FoldAllTime(b, week))
		seen[username] = true
	}
	for username, week := range weekly {
		if seen[username] {
			continue
		}
		out = append(out, FoldAllTime(ScoreRecord{Username: username, PeriodID: AllTimePeriodID}, week))
	}
	return out
}

func recordList(records map[string]ScoreRecord) []ScoreRecord {
	out := make([]ScoreRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	return out
}

func groupByUser(events []models.SubmissionEvent) map[string][]models.SubmissionEvent {
	grouped := make(map[string][]models.SubmissionEvent)
	for _, ev := range events {
		grouped[ev.Username] = append(grouped[ev.Username], ev)
	}
	return grouped
}

func notifySnapshot(snap *Snapshot) {
	meta, err := json.Marshal(map[string]interface{}{
		"period_id": snap.PeriodID,
		"version":   snap.Version,
	})
	if err != nil {
		return
	}
	pubsub.GetBroker().Publish(string(snap.Kind), pubsub.FormatMessage("snapshot", string(meta)))
}
