package eventrsvp

import (
	"time"
)

// RSVP lifecycle statuses
const (
	StatusConfirmed  = "CONFIRMED"
	StatusWaitlisted = "WAITLISTED"
	StatusCancelled  = "CANCELLED"
	StatusCheckedIn  = "CHECKED_IN"
	StatusNoShow     = "NO_SHOW"
)

// ============================
// 🔷 GORM RSVP Model
//
// One row per (event, participant). Rows are never deleted: cancelling
// is a status change, which keeps history for audit and re-requests.
type RSVP struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	EventID       uint       `gorm:"not null;uniqueIndex:idx_rsvp_event_user;index" json:"event_id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"user_id"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	QueuePosition *int       `gorm:"column:queue_position" json:"queue_position,omitempty"` // set only while WAITLISTED
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

// ============================
// 🔷 GORM Feedback Model
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_feedback_event_user;index" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_feedback_event_user" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Feedback) TableName() string {
	return "event_feedback"
}

// ============================
// 📊 Organizer dashboard DTOs
//
// Key casing follows the public API contract, not the DB models.
type AttendanceSummary struct {
	Confirmed         int  `json:"confirmed"`
	Waitlisted        int  `json:"waitlisted"`
	Cancelled         int  `json:"cancelled"`
	CheckedIn         int  `json:"checkedIn"`
	NoShow            int  `json:"noShow"`
	RemainingCapacity *int `json:"remainingCapacity,omitempty"` // only when the event has a capacity
}

type OverviewMeta struct {
	TotalRsvps    int      `json:"totalRsvps"`
	TotalFeedback int      `json:"totalFeedback"`
	AverageRating *float64 `json:"averageRating"` // null when there is no feedback
}

type Overview struct {
	Rsvps    []RSVP            `json:"rsvps"`
	Summary  AttendanceSummary `json:"summary"`
	Feedback []Feedback        `json:"feedback"`
	Meta     OverviewMeta      `json:"meta"`
}
