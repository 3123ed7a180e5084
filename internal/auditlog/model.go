package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Attendance action tags written by the RSVP state machine.
const (
	ActionRSVPConfirmed  = "RSVP_CONFIRMED"
	ActionRSVPWaitlisted = "RSVP_WAITLISTED"
	ActionRSVPCancelled  = "RSVP_CANCELLED"
	ActionCheckedIn      = "CHECKED_IN"
	ActionMarkedNoShow   = "MARKED_NO_SHOW"

	ActionFeedbackRecorded = "FEEDBACK_RECORDED"
)

// AuditLog represents the audit_logs table. Entries are append-only:
// nothing in the codebase updates or deletes them.
type AuditLog struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *uint          `gorm:"index" json:"user_id"`        // actor; nullable (e.g. failed login)
	TargetUserID *uint          `gorm:"index" json:"target_user_id"` // participant acted upon, for attendance entries
	EventID      *uint          `gorm:"index" json:"event_id"`
	Action       string         `gorm:"size:100;not null;index" json:"action"`
	Details      datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress    string         `gorm:"size:45" json:"ip_address"`
	Status       string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID       *uint      `json:"user_id"`
	TargetUserID *uint      `json:"target_user_id"`
	EventID      *uint      `json:"event_id"`
	Action       string     `json:"action"`
	Status       string     `json:"status"`
	FromDate     *time.Time `json:"from_date"`
	ToDate       *time.Time `json:"to_date"`
	Page         int        `json:"page"`
	Limit        int        `json:"limit"`
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
