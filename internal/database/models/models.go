package models

import "time"

type Verdict string

const (
	VerdictAccepted Verdict = "Accepted"
	VerdictRejected Verdict = "Rejected"
)

// SubmissionEvent is one judged submission. The table is append-only and is
// the sole durable source of truth: score records and snapshots are derived
// and can always be rebuilt from it.
type SubmissionEvent struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time

	Username      string    `gorm:"index" json:"username"`
	ProblemLetter string    `json:"problem_letter"`
	PeriodID      string    `gorm:"index" json:"period_id"`
	Verdict       Verdict   `json:"verdict"`
	SubmittedAt   time.Time `gorm:"index" json:"submitted_at"`

	// Excluded marks an event whose timestamp matched no scoreable window.
	// It stays in the log for auditing but never contributes to a score.
	Excluded bool `json:"excluded"`
}

// Participant is the static identity record behind profile pages.
type Participant struct {
	Username  string `gorm:"primaryKey" json:"username"`
	CreatedAt time.Time
	UpdatedAt time.Time

	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	University  string `json:"university"`
}
