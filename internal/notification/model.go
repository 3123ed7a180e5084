package notification

import (
	"time"
)

// Notification categories
const (
	CategoryRSVP       = "rsvp"
	CategoryWaitlist   = "waitlist"
	CategoryAttendance = "attendance"
	CategorySystem     = "system"
)

// InAppNotification - per-user, in-app bell notifications
type InAppNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	EventID   *uint     `gorm:"index" json:"event_id,omitempty"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Category  string    `gorm:"size:30;not null" json:"category"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InAppNotification) TableName() string {
	return "in_app_notifications"
}

// FCMDeviceToken - stores user device tokens for push notifications
type FCMDeviceToken struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_user_token" json:"user_id"`
	DeviceToken string    `gorm:"size:255;not null;index:idx_user_token,unique" json:"device_token"`
	DeviceType  string    `gorm:"size:20" json:"device_type"` // android, ios, web
	DeviceName  string    `gorm:"size:100" json:"device_name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"` // to disable old tokens
	LastUsedAt  time.Time `json:"last_used_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (FCMDeviceToken) TableName() string {
	return "fcm_device_tokens"
}

// RegisterTokenRequest registers a device for push delivery.
type RegisterTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required"`
	DeviceType  string `json:"device_type"`
	DeviceName  string `json:"device_name"`
}

// PaginatedNotifications wraps a notification page with unread count.
type PaginatedNotifications struct {
	Data        []InAppNotification `json:"data"`
	Total       int64               `json:"total"`
	UnreadCount int64               `json:"unread_count"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
}
