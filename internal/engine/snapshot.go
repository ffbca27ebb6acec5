package engine

import "time"

// Snapshot is an immutable, versioned leaderboard for one period. Once
// published it is never mutated; readers keep whatever version they loaded
// and are unaffected by later publishes.
type Snapshot struct {
	PeriodID    string      `json:"period_id"`
	Kind        PeriodKind  `json:"kind"`
	Version     uint64      `json:"version"`
	GeneratedAt time.Time   `json:"generated_at"`
	Entries     []RankEntry `json:"entries"`
}

// Entry finds a user's row in the snapshot.
func (s *Snapshot) Entry(username string) (RankEntry, bool) {
	for _, e := range s.Entries {
		if e.Username == username {
			return e, true
		}
	}
	return RankEntry{}, false
}
