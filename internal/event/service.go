package event

import (
	"context"
	"errors"
	"time"

	"github.com/rahulpatwa/community-events-backend/internal/auditlog"
)

// Service wraps business logic for community events
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service
}

// NewService initializes a new Service with audit logging
func NewService(r *Repository, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:     r,
		AuditSvc: auditSvc,
	}
}

// IsOrganizer reports whether userID is the event's organizer or one of
// its co-organizers. Used by handlers for organizer-scoped reads; the
// RSVP core re-checks inside its own transaction.
func (s *Service) IsOrganizer(eventID, userID uint) (bool, error) {
	e, err := s.Repo.GetEventByID(eventID)
	if err != nil {
		return false, err
	}
	if e.OrganizerID == userID {
		return true, nil
	}
	coIDs, err := s.Repo.GetCoOrganizerIDs(eventID)
	if err != nil {
		return false, err
	}
	for _, id := range coIDs {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// ===========================
// 🎯 Create Event
func (s *Service) CreateEvent(req *CreateEventRequest, organizerID uint, ip string) (*Event, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&organizerID, nil, nil,
			"EVENT_CREATED",
			map[string]interface{}{
				"title":     req.Title,
				"error":     "invalid starts_at format",
				"starts_at": req.StartsAt,
			},
			ip,
			"failure",
		)
		return nil, errors.New("invalid starts_at format, use RFC3339")
	}

	var endsAtPtr *time.Time
	if req.EndsAt != "" {
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, errors.New("invalid ends_at format, use RFC3339")
		}
		endsAtPtr = &endsAt
	}

	if req.Capacity != nil && *req.Capacity < 1 {
		return nil, errors.New("capacity must be at least 1")
	}

	waitlistEnabled := false
	if req.WaitlistEnabled != nil {
		waitlistEnabled = *req.WaitlistEnabled
	}

	e := &Event{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartsAt:        startsAt,
		EndsAt:          endsAtPtr,
		OrganizerID:     organizerID,
		Capacity:        req.Capacity,
		WaitlistEnabled: waitlistEnabled,
		IsActive:        true,
	}

	if err := s.Repo.CreateEvent(e, req.CoOrganizerIDs); err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&organizerID, nil, nil,
			"EVENT_CREATED",
			map[string]interface{}{
				"title": req.Title,
				"error": err.Error(),
			},
			ip,
			"failure",
		)
		return nil, err
	}

	s.AuditSvc.LogAction(
		context.Background(),
		&organizerID, nil, &e.ID,
		"EVENT_CREATED",
		map[string]interface{}{
			"event_id":         e.ID,
			"title":            e.Title,
			"capacity":         e.Capacity,
			"waitlist_enabled": e.WaitlistEnabled,
		},
		ip,
		"success",
	)

	return e, nil
}

// ===========================
// 🔍 Get Event by ID
func (s *Service) GetEventByID(id uint) (*Event, error) {
	return s.Repo.GetEventByID(id)
}

// ===========================
// 📆 Get Upcoming Events
func (s *Service) GetUpcomingEvents() ([]Event, error) {
	return s.Repo.GetUpcomingEvents()
}

// ===========================
// 🙋 Events Organized by a User
func (s *Service) GetEventsByOrganizer(userID uint) ([]Event, error) {
	return s.Repo.ListEventsByOrganizer(userID)
}

// ===========================
// 📄 List Events with Pagination
func (s *Service) ListEvents(limit, offset int, search string) ([]Event, error) {
	return s.Repo.ListEvents(limit, offset, search)
}

// ===========================
// 📊 Dashboard Stats
func (s *Service) GetEventStats() (*EventStatsResponse, error) {
	return s.Repo.GetEventStats()
}

// ===========================
// 🛠 Update Event (organizer only)
func (s *Service) UpdateEvent(id uint, req *UpdateEventRequest, actorID uint, ip string) error {
	ok, err := s.IsOrganizer(id, actorID)
	if err != nil {
		return errors.New("event not found")
	}
	if !ok {
		s.AuditSvc.LogAction(
			context.Background(),
			&actorID, nil, &id,
			"EVENT_UPDATED",
			map[string]interface{}{"error": "not an organizer"},
			ip,
			"failure",
		)
		return errors.New("only an organizer can update this event")
	}

	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		return err
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return errors.New("invalid starts_at format, use RFC3339")
	}
	e.StartsAt = startsAt

	if req.EndsAt != "" {
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return errors.New("invalid ends_at format, use RFC3339")
		}
		e.EndsAt = &endsAt
	} else {
		e.EndsAt = nil
	}

	if req.Capacity != nil && *req.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}

	e.Title = req.Title
	e.Description = req.Description
	e.Location = req.Location
	e.Capacity = req.Capacity
	if req.WaitlistEnabled != nil {
		e.WaitlistEnabled = *req.WaitlistEnabled
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := s.Repo.UpdateEvent(e, req.CoOrganizerIDs); err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&actorID, nil, &id,
			"EVENT_UPDATED",
			map[string]interface{}{"error": err.Error()},
			ip,
			"failure",
		)
		return err
	}

	s.AuditSvc.LogAction(
		context.Background(),
		&actorID, nil, &id,
		"EVENT_UPDATED",
		map[string]interface{}{
			"event_id": e.ID,
			"title":    e.Title,
		},
		ip,
		"success",
	)

	return nil
}

// ===========================
// ❌ Deactivate Event (organizer only; history is kept)
func (s *Service) DeactivateEvent(id uint, actorID uint, ip string) error {
	ok, err := s.IsOrganizer(id, actorID)
	if err != nil {
		return errors.New("event not found")
	}
	if !ok {
		return errors.New("only an organizer can deactivate this event")
	}

	if err := s.Repo.DeactivateEvent(id); err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&actorID, nil, &id,
			"EVENT_DEACTIVATED",
			map[string]interface{}{"error": err.Error()},
			ip,
			"failure",
		)
		return err
	}

	s.AuditSvc.LogAction(
		context.Background(),
		&actorID, nil, &id,
		"EVENT_DEACTIVATED",
		map[string]interface{}{"event_id": id},
		ip,
		"success",
	)

	return nil
}
