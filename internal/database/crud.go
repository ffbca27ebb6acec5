package database

import (
	"github.com/fiucpc/arena/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Submission event log. Events are only ever created, never updated or
// deleted; the Excluded flag is decided at append time.

func AppendSubmissionEvent(db *gorm.DB, ev *models.SubmissionEvent) error {
	return db.Create(ev).Error
}

// ReplaySubmissionEvents returns all scoreable events of a period ordered by
// submission time. The secondary key on id keeps the order stable for events
// sharing a timestamp, which replay determinism depends on.
func ReplaySubmissionEvents(db *gorm.DB, periodID string) ([]models.SubmissionEvent, error) {
	var events []models.SubmissionEvent
	err := db.Where("period_id = ? AND excluded = ?", periodID, false).
		Order("submitted_at asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ReplayUserEvents is the per-user variant used by incremental updates.
func ReplayUserEvents(db *gorm.DB, username, periodID string) ([]models.SubmissionEvent, error) {
	var events []models.SubmissionEvent
	err := db.Where("username = ? AND period_id = ? AND excluded = ?", username, periodID, false).
		Order("submitted_at asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func GetSubmissionEvents(db *gorm.DB, username, periodID string) ([]models.SubmissionEvent, error) {
	q := db.Model(&models.SubmissionEvent{})
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if periodID != "" {
		q = q.Where("period_id = ?", periodID)
	}
	var events []models.SubmissionEvent
	if err := q.Order("submitted_at asc, id asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func CountSubmissionEvents(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.SubmissionEvent{}).Count(&count).Error
	return count, err
}

// Participant directory

func UpsertParticipant(db *gorm.DB, p *models.Participant) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "country", "university", "updated_at",
		}),
	}).Create(p).Error
}

func GetParticipant(db *gorm.DB, username string) (*models.Participant, error) {
	var p models.Participant
	if err := db.Where("username = ?", username).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func GetAllParticipants(db *gorm.DB) ([]models.Participant, error) {
	var ps []models.Participant
	if err := db.Order("username asc").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func CountParticipants(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Participant{}).Count(&count).Error
	return count, err
}
