package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/rahulpatwa/community-events-backend/internal/auditlog"
	"github.com/rahulpatwa/community-events-backend/utils"
)

type Service interface {
	NotifyAttendance(ctx context.Context, evt utils.AttendanceEvent) error

	ListMyNotifications(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*PaginatedNotifications, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
	MarkAllRead(ctx context.Context, userID uint) error

	RegisterDeviceToken(ctx context.Context, userID uint, req RegisterTokenRequest) error
	RemoveDeviceToken(ctx context.Context, userID uint, token string) error
}

type service struct {
	repo Repository
	push Channel
}

func NewService(repo Repository, push Channel) Service {
	return &service{repo: repo, push: push}
}

// attendanceMessage maps an attendance transition to the title/body shown
// to the affected participant. Returns ok=false for actions that should
// not produce a notification.
func attendanceMessage(evt utils.AttendanceEvent) (title, message, category string, ok bool) {
	switch evt.Action {
	case auditlog.ActionRSVPConfirmed:
		if evt.Promoted {
			return "You're off the waitlist!",
				fmt.Sprintf("A spot opened up in \"%s\" and your RSVP is now confirmed.", evt.EventTitle),
				CategoryWaitlist, true
		}
		return "RSVP confirmed",
			fmt.Sprintf("Your RSVP for \"%s\" is confirmed.", evt.EventTitle),
			CategoryRSVP, true
	case auditlog.ActionRSVPWaitlisted:
		return "Added to waitlist",
			fmt.Sprintf("\"%s\" is full. You have been added to the waitlist and will be confirmed automatically when a spot opens.", evt.EventTitle),
			CategoryWaitlist, true
	case auditlog.ActionRSVPCancelled:
		return "RSVP cancelled",
			fmt.Sprintf("Your RSVP for \"%s\" has been cancelled.", evt.EventTitle),
			CategoryRSVP, true
	case auditlog.ActionCheckedIn:
		return "Checked in",
			fmt.Sprintf("You are checked in at \"%s\". Enjoy the event!", evt.EventTitle),
			CategoryAttendance, true
	default:
		// MARKED_NO_SHOW is organizer bookkeeping, not worth a ping
		return "", "", "", false
	}
}

// NotifyAttendance fans one attendance transition out to the affected
// participant: an in-app notification always, a push message when the
// user has registered devices and FCM is configured.
func (s *service) NotifyAttendance(ctx context.Context, evt utils.AttendanceEvent) error {
	title, message, category, ok := attendanceMessage(evt)
	if !ok {
		return nil
	}

	n := &InAppNotification{
		UserID:   evt.TargetUserID,
		EventID:  &evt.EventID,
		Title:    title,
		Message:  message,
		Category: category,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	// push delivery is best-effort
	if utils.IsFCMEnabled() {
		tokens, err := s.repo.ActiveTokensForUser(ctx, evt.TargetUserID)
		if err != nil {
			log.Printf("⚠️ Could not load device tokens for user %d: %v", evt.TargetUserID, err)
			return nil
		}
		if len(tokens) > 0 {
			if err := s.push.Send(tokens, title, message); err != nil {
				log.Printf("⚠️ Push delivery failed for user %d: %v", evt.TargetUserID, err)
			}
		}
	}
	return nil
}

func (s *service) ListMyNotifications(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*PaginatedNotifications, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PaginatedNotifications{
		Data:        items,
		Total:       total,
		UnreadCount: unread,
		Page:        page,
		Limit:       limit,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *service) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) RegisterDeviceToken(ctx context.Context, userID uint, req RegisterTokenRequest) error {
	return s.repo.UpsertDeviceToken(ctx, &FCMDeviceToken{
		UserID:      userID,
		DeviceToken: req.DeviceToken,
		DeviceType:  req.DeviceType,
		DeviceName:  req.DeviceName,
	})
}

func (s *service) RemoveDeviceToken(ctx context.Context, userID uint, token string) error {
	return s.repo.DeactivateDeviceToken(ctx, userID, token)
}
