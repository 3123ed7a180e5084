package reports

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	GetAttendanceRows(ctx context.Context, eventID uint) ([]AttendanceReportRow, error)
	GetFeedbackRows(ctx context.Context, eventID uint) ([]FeedbackReportRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAttendanceRows(ctx context.Context, eventID uint) ([]AttendanceReportRow, error) {
	var rows []AttendanceReportRow
	err := r.db.WithContext(ctx).
		Table("rsvps").
		Select(`rsvps.id AS rsvp_id,
			rsvps.user_id,
			users.full_name,
			users.email,
			rsvps.status,
			rsvps.queue_position,
			rsvps.checked_in_at,
			rsvps.created_at AS rsvp_created_at`).
		Joins("JOIN users ON users.id = rsvps.user_id").
		Where("rsvps.event_id = ?", eventID).
		Order("rsvps.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) GetFeedbackRows(ctx context.Context, eventID uint) ([]FeedbackReportRow, error) {
	var rows []FeedbackReportRow
	err := r.db.WithContext(ctx).
		Table("event_feedback").
		Select(`event_feedback.user_id,
			users.full_name,
			users.email,
			event_feedback.rating,
			event_feedback.comment,
			event_feedback.created_at AS submitted_at`).
		Joins("JOIN users ON users.id = event_feedback.user_id").
		Where("event_feedback.event_id = ?", eventID).
		Order("event_feedback.created_at ASC").
		Scan(&rows).Error
	return rows, err
}
