package eventrsvp

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rahulpatwa/community-events-backend/internal/event"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ============================
// 🔒 Event row access

// GetEventForUpdate loads the event row and locks it for the duration of
// the surrounding transaction. Every RSVP mutation goes through this so
// capacity checks and queue positions are computed against a stable row.
// SQLite serializes writers itself and rejects FOR UPDATE, so the lock
// clause is only applied on postgres.
func (r *Repository) GetEventForUpdate(tx *gorm.DB, eventID uint) (*event.Event, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ev event.Event
	if err := q.First(&ev, eventID).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetEvent loads the event row without locking it. Read paths only.
func (r *Repository) GetEvent(tx *gorm.DB, eventID uint) (*event.Event, error) {
	var ev event.Event
	if err := tx.First(&ev, eventID).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *Repository) GetCoOrganizerIDs(tx *gorm.DB, eventID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&event.EventOrganizer{}).
		Where("event_id = ?", eventID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// ============================
// 🔷 RSVP rows

func (r *Repository) GetRSVP(tx *gorm.DB, eventID, userID uint) (*RSVP, error) {
	var rsvp RSVP
	err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&rsvp).Error
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *Repository) SaveRSVP(tx *gorm.DB, rsvp *RSVP) error {
	return tx.Save(rsvp).Error
}

func (r *Repository) ListRSVPs(tx *gorm.DB, eventID uint) ([]RSVP, error) {
	var rsvps []RSVP
	err := tx.Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Find(&rsvps).Error
	return rsvps, err
}

func (r *Repository) ListRSVPsByUser(tx *gorm.DB, userID uint) ([]RSVP, error) {
	var rsvps []RSVP
	err := tx.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rsvps).Error
	return rsvps, err
}

func (r *Repository) CountByStatus(tx *gorm.DB, eventID uint, status string) (int64, error) {
	var count int64
	err := tx.Model(&RSVP{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}

// CountsByStatus returns per-status row counts for one event in a single
// GROUP BY query.
func (r *Repository) CountsByStatus(tx *gorm.DB, eventID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := tx.Model(&RSVP{}).
		Select("status, COUNT(*) as count").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

// NextQueuePosition returns 1 + the highest position currently held on
// the event's waitlist. New entries always land behind everyone already
// queued, so FIFO order survives cancellations in the middle.
func (r *Repository) NextQueuePosition(tx *gorm.DB, eventID uint) (int, error) {
	var maxPos *int
	err := tx.Model(&RSVP{}).
		Where("event_id = ?", eventID).
		Select("MAX(queue_position)").
		Scan(&maxPos).Error
	if err != nil {
		return 0, err
	}
	if maxPos == nil {
		return 1, nil
	}
	return *maxPos + 1, nil
}

// ListWaitlisted returns the current waitlist in promotion order.
func (r *Repository) ListWaitlisted(tx *gorm.DB, eventID uint) ([]RSVP, error) {
	var rsvps []RSVP
	err := tx.Where("event_id = ? AND status = ?", eventID, StatusWaitlisted).
		Order("queue_position ASC").
		Find(&rsvps).Error
	return rsvps, err
}

// ============================
// 🟢 Feedback rows

// UpsertFeedback inserts or overwrites the single feedback row per
// (event, user).
func (r *Repository) UpsertFeedback(tx *gorm.DB, fb *Feedback) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(fb).Error
}

func (r *Repository) ListFeedback(tx *gorm.DB, eventID uint) ([]Feedback, error) {
	var fbs []Feedback
	err := tx.Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Find(&fbs).Error
	return fbs, err
}
