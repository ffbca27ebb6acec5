package service

import (
	"errors"
	"fmt"

	"github.com/fiucpc/arena/internal/database"
	"github.com/fiucpc/arena/internal/engine"
	"gorm.io/gorm"
)

// Service is the read API surface over the engine: it serves the latest
// published snapshots and composes profile views. It never triggers
// recomputation.
type Service struct {
	db    *gorm.DB
	store *engine.Store
}

func NewService(db *gorm.DB, store *engine.Store) *Service {
	return &Service{db: db, store: store}
}

func (s *Service) Leaderboard(kind engine.PeriodKind) (*engine.Snapshot, error) {
	snap := s.store.Leaderboard(kind)
	if snap == nil {
		return nil, fmt.Errorf("no snapshot published for period kind %q", kind)
	}
	return snap, nil
}

// Profile joins the user's weekly and all-time standings with their static
// identity. Either standing may be absent ("unranked"); only a user with no
// standing anywhere and no roster record is a UserNotFound.
type Profile struct {
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name,omitempty"`
	Country     string            `json:"country,omitempty"`
	University  string            `json:"university,omitempty"`
	Weekly      *engine.RankEntry `json:"weekly"`
	AllTime     *engine.RankEntry `json:"all_time"`
}

func (s *Service) Profile(username string) (*Profile, error) {
	profile := &Profile{Username: username}

	if snap := s.store.Leaderboard(engine.Weekly); snap != nil {
		if entry, ok := snap.Entry(username); ok {
			profile.Weekly = &entry
		}
	}
	if snap := s.store.Leaderboard(engine.AllTime); snap != nil {
		if entry, ok := snap.Entry(username); ok {
			profile.AllTime = &entry
		}
	}

	participant, err := database.GetParticipant(s.db, username)
	switch {
	case err == nil:
		profile.DisplayName = participant.DisplayName
		profile.Country = participant.Country
		profile.University = participant.University
	case errors.Is(err, gorm.ErrRecordNotFound):
		if profile.Weekly == nil && profile.AllTime == nil {
			return nil, fmt.Errorf("%w: %s", engine.ErrUserNotFound, username)
		}
	default:
		return nil, err
	}

	return profile, nil
}
