package event

import (
	"time"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"type:varchar(255);not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Location        string     `gorm:"type:text" json:"location"`
	StartsAt        time.Time  `gorm:"not null;index" json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
	OrganizerID     uint       `gorm:"not null;index" json:"organizer_id"`
	Capacity        *int       `json:"capacity"` // nil = unlimited
	WaitlistEnabled bool       `gorm:"default:false" json:"waitlist_enabled"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	RSVPCount int `gorm:"-" json:"rsvp_count"`
}

// ============================
// 🔷 Co-organizer join table
type EventOrganizer struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"not null;uniqueIndex:idx_event_coorganizer" json:"event_id"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_event_coorganizer" json:"user_id"`
}

func (EventOrganizer) TableName() string {
	return "event_organizers"
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Location        string `json:"location" binding:"required"`
	StartsAt        string `json:"starts_at" binding:"required"` // 🛠 string format: RFC3339
	EndsAt          string `json:"ends_at,omitempty"`
	Capacity        *int   `json:"capacity,omitempty"`
	WaitlistEnabled *bool  `json:"waitlist_enabled,omitempty"`
	CoOrganizerIDs  []uint `json:"co_organizer_ids,omitempty"`
}

// ============================
// 🟠 Update Event Request
type UpdateEventRequest struct {
	ID              uint   `json:"-"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Location        string `json:"location" binding:"required"`
	StartsAt        string `json:"starts_at" binding:"required"` // 🛠 string
	EndsAt          string `json:"ends_at,omitempty"`
	Capacity        *int   `json:"capacity,omitempty"`
	WaitlistEnabled *bool  `json:"waitlist_enabled,omitempty"`
	IsActive        *bool  `json:"is_active,omitempty"`
	CoOrganizerIDs  []uint `json:"co_organizer_ids,omitempty"`
}
