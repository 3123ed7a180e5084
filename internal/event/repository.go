package event

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🎯 Create Event with co-organizers
func (r *Repository) CreateEvent(e *Event, coOrganizerIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		for _, uid := range coOrganizerIDs {
			if uid == e.OrganizerID {
				continue
			}
			if err := tx.Create(&EventOrganizer{EventID: e.ID, UserID: uid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ===========================
// 🔍 Get Event By ID with RSVP count
func (r *Repository) GetEventByID(id uint) (*Event, error) {
	var e Event
	err := r.DB.First(&e, id).Error
	if err != nil {
		return nil, err
	}

	var count int64
	err = r.DB.Table("rsvps").
		Where("event_id = ? AND status <> ?", id, "CANCELLED").
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	e.RSVPCount = int(count)
	return &e, nil
}

// ===========================
// 👥 Get co-organizer user ids for an event
func (r *Repository) GetCoOrganizerIDs(eventID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&EventOrganizer{}).
		Where("event_id = ?", eventID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// ===========================
// 📆 Get Upcoming Events
func (r *Repository) GetUpcomingEvents() ([]Event, error) {
	var events []Event
	err := r.DB.
		Where("starts_at >= ? AND is_active = ?", time.Now().Add(-24*time.Hour), true).
		Order("starts_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	for i := range events {
		var count int64
		r.DB.Table("rsvps").
			Where("event_id = ? AND status <> ?", events[i].ID, "CANCELLED").
			Count(&count)
		events[i].RSVPCount = int(count)
	}

	return events, nil
}

// ===========================
// 📄 List Events With Pagination & Search
func (r *Repository) ListEvents(limit, offset int, search string) ([]Event, error) {
	var events []Event

	query := r.DB.Model(&Event{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	err := query.
		Order("starts_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	for i := range events {
		var count int64
		r.DB.Table("rsvps").
			Where("event_id = ? AND status <> ?", events[i].ID, "CANCELLED").
			Count(&count)
		events[i].RSVPCount = int(count)
	}

	return events, nil
}

// ===========================
// 📄 List events organized by a user (owner or co-organizer)
func (r *Repository) ListEventsByOrganizer(userID uint) ([]Event, error) {
	var events []Event
	err := r.DB.
		Where("organizer_id = ?", userID).
		Or("id IN (?)", r.DB.Model(&EventOrganizer{}).Select("event_id").Where("user_id = ?", userID)).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

// ===========================
// 🛠 Update Event
func (r *Repository) UpdateEvent(e *Event, coOrganizerIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(e).Error; err != nil {
			return err
		}
		if coOrganizerIDs == nil {
			return nil
		}
		if err := tx.Where("event_id = ?", e.ID).Delete(&EventOrganizer{}).Error; err != nil {
			return err
		}
		for _, uid := range coOrganizerIDs {
			if uid == e.OrganizerID {
				continue
			}
			if err := tx.Create(&EventOrganizer{EventID: e.ID, UserID: uid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ===========================
// ❌ Deactivate Event (soft)
func (r *Repository) DeactivateEvent(id uint) error {
	return r.DB.Model(&Event{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ===========================
// 📊 Event Dashboard Stats
type EventStatsResponse struct {
	TotalEvents     int `json:"total_events"`
	ThisMonthEvents int `json:"this_month_events"`
	UpcomingEvents  int `json:"upcoming_events"`
	TotalRSVPs      int `json:"total_rsvps"`
}

func (r *Repository) GetEventStats() (*EventStatsResponse, error) {
	var stats EventStatsResponse
	var total, thisMonth, upcoming, totalRSVPs int64

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	r.DB.Model(&Event{}).Count(&total)

	r.DB.Model(&Event{}).
		Where("starts_at >= ?", startOfMonth).
		Count(&thisMonth)

	r.DB.Model(&Event{}).
		Where("starts_at >= ?", now).
		Count(&upcoming)

	r.DB.Table("rsvps").
		Where("status <> ?", "CANCELLED").
		Count(&totalRSVPs)

	stats.TotalEvents = int(total)
	stats.ThisMonthEvents = int(thisMonth)
	stats.UpcomingEvents = int(upcoming)
	stats.TotalRSVPs = int(totalRSVPs)

	return &stats, nil
}
