package eventrsvp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/rahulpatwa/community-events-backend/internal/auditlog"
	"github.com/rahulpatwa/community-events-backend/internal/event"
	"github.com/rahulpatwa/community-events-backend/utils"
)

const summaryCacheTTL = 60 * time.Second

// Service implements the RSVP state machine. Every mutating operation
// runs in a single transaction that locks the event row, so capacity
// checks and queue positions stay consistent under concurrent requests.
// Audit entries commit atomically with the transition they describe.
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service
}

func NewService(repo *Repository, auditSvc auditlog.Service) *Service {
	return &Service{Repo: repo, AuditSvc: auditSvc}
}

func summaryCacheKey(eventID uint) string {
	return fmt.Sprintf("rsvp:summary:%d", eventID)
}

// ============================
// 🔒 Authorization gate

// requireOrganizer passes when callerID is the event's organizer or one
// of its co-organizers.
func (s *Service) requireOrganizer(tx *gorm.DB, ev *event.Event, callerID uint) error {
	if ev.OrganizerID == callerID {
		return nil
	}
	ids, err := s.Repo.GetCoOrganizerIDs(tx, ev.ID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == callerID {
			return nil
		}
	}
	return ErrNotOrganizer
}

// lockEventAsOrganizer locks the event row and runs the gate. All
// organizer-issued mutations start here.
func (s *Service) lockEventAsOrganizer(tx *gorm.DB, eventID, callerID uint) (*event.Event, error) {
	ev, err := s.Repo.GetEventForUpdate(tx, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(tx, ev, callerID); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) getOrNewRSVP(tx *gorm.DB, eventID, userID uint) (*RSVP, error) {
	rsvp, err := s.Repo.GetRSVP(tx, eventID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &RSVP{EventID: eventID, UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return rsvp, nil
}

func attendanceEvt(action string, ev *event.Event, targetID, actorID uint, promoted bool) utils.AttendanceEvent {
	return utils.AttendanceEvent{
		Action:       action,
		EventID:      ev.ID,
		EventTitle:   ev.Title,
		TargetUserID: targetID,
		ActorUserID:  actorID,
		Promoted:     promoted,
		OccurredAt:   time.Now(),
	}
}

// afterCommit runs once a mutation has committed: drop the cached
// summary and fan the transitions out to Kafka.
func (s *Service) afterCommit(ctx context.Context, eventID uint, evts []utils.AttendanceEvent) {
	utils.CacheDelete(ctx, summaryCacheKey(eventID))
	for _, evt := range evts {
		utils.PublishAttendanceEvent(ctx, evt)
	}
}

// logFailure records a rejected mutation. Best-effort: failure entries
// live outside the rolled-back transaction.
func (s *Service) logFailure(ctx context.Context, actorID uint, targetID *uint, eventID uint, action string, cause error, ip string) {
	details := map[string]interface{}{"error": cause.Error()}
	if de, ok := AsDomainError(cause); ok {
		details["code"] = de.Code
	}
	if err := s.AuditSvc.LogAction(ctx, &actorID, targetID, &eventID, action, details, ip, "failure"); err != nil {
		log.Printf("⚠️ Failed to write audit log for %s: %v", action, err)
	}
}

// ============================
// 🎯 Organizer-issued transitions

// Confirm sets the target's RSVP to CONFIRMED. Organizer confirmations
// are capacity overrides: they do not re-check capacity, but the caller
// is warned via the returned flag when the confirmed count now exceeds
// it.
func (s *Service) Confirm(ctx context.Context, eventID, targetUserID, actorID uint, ip string) (capacityExceeded bool, err error) {
	var evts []utils.AttendanceEvent
	err = s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.lockEventAsOrganizer(tx, eventID, actorID)
		if txErr != nil {
			return txErr
		}
		rsvp, txErr := s.getOrNewRSVP(tx, eventID, targetUserID)
		if txErr != nil {
			return txErr
		}
		if rsvp.Status == StatusConfirmed {
			return ErrAlreadyConfirmed
		}

		rsvp.Status = StatusConfirmed
		rsvp.QueuePosition = nil
		rsvp.CheckedInAt = nil
		if txErr := s.Repo.SaveRSVP(tx, rsvp); txErr != nil {
			return txErr
		}

		if ev.Capacity != nil {
			confirmed, txErr := s.Repo.CountByStatus(tx, eventID, StatusConfirmed)
			if txErr != nil {
				return txErr
			}
			if confirmed > int64(*ev.Capacity) {
				capacityExceeded = true
			}
		}

		details := map[string]interface{}{"capacity_exceeded": capacityExceeded}
		if txErr := s.AuditSvc.LogActionTx(tx, &actorID, &targetUserID, &ev.ID, auditlog.ActionRSVPConfirmed, details, ip); txErr != nil {
			return txErr
		}
		evts = append(evts, attendanceEvt(auditlog.ActionRSVPConfirmed, ev, targetUserID, actorID, false))
		return nil
	})
	if err != nil {
		s.logFailure(ctx, actorID, &targetUserID, eventID, auditlog.ActionRSVPConfirmed, err, ip)
		return false, err
	}
	s.afterCommit(ctx, eventID, evts)
	return capacityExceeded, nil
}

// Waitlist places the target at the back of the event's waitlist.
func (s *Service) Waitlist(ctx context.Context, eventID, targetUserID, actorID uint, ip string) error {
	var evts []utils.AttendanceEvent
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.lockEventAsOrganizer(tx, eventID, actorID)
		if txErr != nil {
			return txErr
		}
		if !ev.WaitlistEnabled {
			return ErrWaitlistDisabled
		}
		rsvp, txErr := s.getOrNewRSVP(tx, eventID, targetUserID)
		if txErr != nil {
			return txErr
		}

		pos, txErr := s.Repo.NextQueuePosition(tx, eventID)
		if txErr != nil {
			return txErr
		}
		rsvp.Status = StatusWaitlisted
		rsvp.QueuePosition = &pos
		rsvp.CheckedInAt = nil
		if txErr := s.Repo.SaveRSVP(tx, rsvp); txErr != nil {
			return txErr
		}

		details := map[string]interface{}{"queue_position": pos}
		if txErr := s.AuditSvc.LogActionTx(tx, &actorID, &targetUserID, &ev.ID, auditlog.ActionRSVPWaitlisted, details, ip); txErr != nil {
			return txErr
		}
		evts = append(evts, attendanceEvt(auditlog.ActionRSVPWaitlisted, ev, targetUserID, actorID, false))
		return nil
	})
	if err != nil {
		s.logFailure(ctx, actorID, &targetUserID, eventID, auditlog.ActionRSVPWaitlisted, err, ip)
		return err
	}
	s.afterCommit(ctx, eventID, evts)
	return nil
}

// Cancel sets the target's RSVP to CANCELLED. Cancelling a confirmed
// seat frees it, so a promotion pass runs within the same transaction.
func (s *Service) Cancel(ctx context.Context, eventID, targetUserID, actorID uint, ip string) error {
	var evts []utils.AttendanceEvent
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.lockEventAsOrganizer(tx, eventID, actorID)
		if txErr != nil {
			return txErr
		}
		return s.cancelLocked(tx, ev, targetUserID, actorID, ip, &evts)
	})
	if err != nil {
		s.logFailure(ctx, actorID, &targetUserID, eventID, auditlog.ActionRSVPCancelled, err, ip)
		return err
	}
	s.afterCommit(ctx, eventID, evts)
	return nil
}

// cancelLocked performs the CANCELLED transition against an
// already-locked event row. Shared by the organizer action and the
// participant leave paths.
func (s *Service) cancelLocked(tx *gorm.DB, ev *event.Event, targetUserID, actorID uint, ip string, evts *[]utils.AttendanceEvent) error {
	rsvp, err := s.Repo.GetRSVP(tx, ev.ID, targetUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotAttending
	}
	if err != nil {
		return err
	}
	if rsvp.Status == StatusCancelled {
		return ErrNotAttending
	}

	wasConfirmed := rsvp.Status == StatusConfirmed
	rsvp.Status = StatusCancelled
	rsvp.QueuePosition = nil
	if err := s.Repo.SaveRSVP(tx, rsvp); err != nil {
		return err
	}
	if err := s.AuditSvc.LogActionTx(tx, &actorID, &targetUserID, &ev.ID, auditlog.ActionRSVPCancelled, nil, ip); err != nil {
		return err
	}
	*evts = append(*evts, attendanceEvt(auditlog.ActionRSVPCancelled, ev, targetUserID, actorID, false))

	// a freed confirmed seat admits the head of the waitlist
	if wasConfirmed {
		if _, err := s.sweepLocked(tx, ev, actorID, ip, evts); err != nil {
			return err
		}
	}
	return nil
}

// CheckIn marks a confirmed participant as present.
func (s *Service) CheckIn(ctx context.Context, eventID, targetUserID, actorID uint, ip string) error {
	var evts []utils.AttendanceEvent
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.lockEventAsOrganizer(tx, eventID, actorID)
		if txErr != nil {
			return txErr
		}
		rsvp, txErr := s.Repo.GetRSVP(tx, eventID, targetUserID)
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return ErrNotAttending
		}
		if txErr != nil {
			return txErr
		}
		if rsvp.Status == StatusCheckedIn {
			return ErrAlreadyCheckedIn
		}
		if rsvp.Status != StatusConfirmed {
			return ErrNotAttending
		}

		now := time.Now()
		rsvp.Status = StatusCheckedIn
		rsvp.CheckedInAt = &now
		if txErr := s.Repo.SaveRSVP(tx, rsvp); txErr != nil {
			return txErr
		}
		if txErr := s.AuditSvc.LogActionTx(tx, &actorID, &targetUserID, &ev.ID, auditlog.ActionCheckedIn, nil, ip); txErr != nil {
			return txErr
		}
		evts = append(evts, attendanceEvt(auditlog.ActionCheckedIn, ev, targetUserID, actorID, false))
		return nil
	})
	if err != nil {
		s.logFailure(ctx, actorID, &targetUserID, eventID, auditlog.ActionCheckedIn, err, ip)
		return err
	}
	s.afterCommit(ctx, eventID, evts)
	return nil
}

// MarkNoShow flags a confirmed participant who did not attend.
func (s *Service) MarkNoShow(ctx context.Context, eventID, targetUserID, actorID uint, ip string) error {
	var evts []utils.AttendanceEvent
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.lockEventAsOrganizer(tx, eventID, actorID)
		if txErr != nil {
			return txErr
		}
		rsvp, txErr := s.Repo.GetRSVP(tx, eventID, targetUserID)
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return ErrNotAttending
		}
		if txErr != nil {
			return txErr
		}
		if rsvp.Status != StatusConfirmed {
			return ErrNotAttending
		}

		rsvp.Status = StatusNoShow
		if txErr := s.Repo.SaveRSVP(tx, rsvp); txErr != nil {
			return txErr
		}
		if txErr := s.AuditSvc.LogActionTx(tx, &actorID, &targetUserID, &ev.ID, auditlog.ActionMarkedNoShow, nil, ip); txErr != nil {
			return txErr
		}
		evts = append(evts, attendanceEvt(auditlog.ActionMarkedNoShow, ev, targetUserID, actorID, false))
		return nil
	})
	if err != nil {
		s.logFailure(ctx, actorID, &targetUserID, eventID, auditlog.ActionMarkedNoShow, err, ip)
		return err
	}
	s.afterCommit(ctx, eventID, evts)
	return nil
}

// ============================
// 📆 Waitlist admission controller

// SweepWaitlist runs one promotion pass, explicitly requested by an
// organizer. Returns the number of promotions performed.
func (s *Service) SweepWaitlist(ctx context.Context, eventID, actorID uint, ip string) (int, error) {
	var promoted int
	var evts []utils.AttendanceEvent
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.lockEventAsOrganizer(tx, eventID, actorID)
		if txErr != nil {
			return txErr
		}
		promoted, txErr = s.sweepLocked(tx, ev, actorID, ip, &evts)
		return txErr
	})
	if err != nil {
		s.logFailure(ctx, actorID, nil, eventID, auditlog.ActionRSVPConfirmed, err, ip)
		return 0, err
	}
	s.afterCommit(ctx, eventID, evts)
	return promoted, nil
}

// sweepLocked promotes waitlisted entries in queue order while seats
// remain. Unlimited capacity promotes everyone. Later entries are never
// reordered; with no free seats the pass is a no-op, which makes the
// sweep idempotent.
func (s *Service) sweepLocked(tx *gorm.DB, ev *event.Event, actorID uint, ip string, evts *[]utils.AttendanceEvent) (int, error) {
	waitlisted, err := s.Repo.ListWaitlisted(tx, ev.ID)
	if err != nil {
		return 0, err
	}
	if len(waitlisted) == 0 {
		return 0, nil
	}

	remaining := int64(len(waitlisted))
	if ev.Capacity != nil {
		confirmed, err := s.Repo.CountByStatus(tx, ev.ID, StatusConfirmed)
		if err != nil {
			return 0, err
		}
		remaining = int64(*ev.Capacity) - confirmed
	}

	promoted := 0
	for i := range waitlisted {
		if int64(promoted) >= remaining {
			break
		}
		entry := &waitlisted[i]
		fromPos := 0
		if entry.QueuePosition != nil {
			fromPos = *entry.QueuePosition
		}

		entry.Status = StatusConfirmed
		entry.QueuePosition = nil
		if err := s.Repo.SaveRSVP(tx, entry); err != nil {
			return promoted, err
		}

		details := map[string]interface{}{
			"promoted_from_waitlist": true,
			"queue_position":         fromPos,
		}
		if err := s.AuditSvc.LogActionTx(tx, &actorID, &entry.UserID, &ev.ID, auditlog.ActionRSVPConfirmed, details, ip); err != nil {
			return promoted, err
		}
		*evts = append(*evts, attendanceEvt(auditlog.ActionRSVPConfirmed, ev, entry.UserID, actorID, true))
		promoted++
	}
	return promoted, nil
}

// ============================
// 🙋 Participant self-service

// Join handles a participant's own request to attend: a free seat
// confirms them, a full event with a waitlist queues them, a full event
// without one is rejected. Returns the resulting status.
func (s *Service) Join(ctx context.Context, eventID, userID uint, ip string) (string, error) {
	var status string
	var evts []utils.AttendanceEvent
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.Repo.GetEventForUpdate(tx, eventID)
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		if txErr != nil {
			return txErr
		}
		if !ev.IsActive {
			return ErrEventInactive
		}

		rsvp, txErr := s.getOrNewRSVP(tx, eventID, userID)
		if txErr != nil {
			return txErr
		}
		switch rsvp.Status {
		case StatusConfirmed, StatusCheckedIn:
			return ErrAlreadyConfirmed
		case StatusWaitlisted:
			status = StatusWaitlisted
			return nil
		case StatusNoShow:
			// NO_SHOW is terminal for the participant. Only an
			// organizer confirm can bring them back.
			return ErrNotAttending
		}

		hasSeat := true
		if ev.Capacity != nil {
			confirmed, txErr := s.Repo.CountByStatus(tx, eventID, StatusConfirmed)
			if txErr != nil {
				return txErr
			}
			hasSeat = confirmed < int64(*ev.Capacity)
		}

		if hasSeat {
			rsvp.Status = StatusConfirmed
			rsvp.QueuePosition = nil
			if txErr := s.Repo.SaveRSVP(tx, rsvp); txErr != nil {
				return txErr
			}
			if txErr := s.AuditSvc.LogActionTx(tx, &userID, &userID, &ev.ID, auditlog.ActionRSVPConfirmed, nil, ip); txErr != nil {
				return txErr
			}
			evts = append(evts, attendanceEvt(auditlog.ActionRSVPConfirmed, ev, userID, userID, false))
			status = StatusConfirmed
			return nil
		}

		if !ev.WaitlistEnabled {
			return ErrEventFull
		}
		pos, txErr := s.Repo.NextQueuePosition(tx, eventID)
		if txErr != nil {
			return txErr
		}
		rsvp.Status = StatusWaitlisted
		rsvp.QueuePosition = &pos
		if txErr := s.Repo.SaveRSVP(tx, rsvp); txErr != nil {
			return txErr
		}
		details := map[string]interface{}{"queue_position": pos}
		if txErr := s.AuditSvc.LogActionTx(tx, &userID, &userID, &ev.ID, auditlog.ActionRSVPWaitlisted, details, ip); txErr != nil {
			return txErr
		}
		evts = append(evts, attendanceEvt(auditlog.ActionRSVPWaitlisted, ev, userID, userID, false))
		status = StatusWaitlisted
		return nil
	})
	if err != nil {
		s.logFailure(ctx, userID, &userID, eventID, auditlog.ActionRSVPConfirmed, err, ip)
		return "", err
	}
	s.afterCommit(ctx, eventID, evts)
	return status, nil
}

// Leave cancels the caller's own RSVP, whatever its current state.
func (s *Service) Leave(ctx context.Context, eventID, userID uint, ip string) error {
	var evts []utils.AttendanceEvent
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.Repo.GetEventForUpdate(tx, eventID)
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		if txErr != nil {
			return txErr
		}
		return s.cancelLocked(tx, ev, userID, userID, ip, &evts)
	})
	if err != nil {
		s.logFailure(ctx, userID, &userID, eventID, auditlog.ActionRSVPCancelled, err, ip)
		return err
	}
	s.afterCommit(ctx, eventID, evts)
	return nil
}

// LeaveWaitlist removes the caller from the waitlist. Unlike Leave it
// insists the caller is actually WAITLISTED.
func (s *Service) LeaveWaitlist(ctx context.Context, eventID, userID uint, ip string) error {
	var evts []utils.AttendanceEvent
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.Repo.GetEventForUpdate(tx, eventID)
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		if txErr != nil {
			return txErr
		}
		rsvp, txErr := s.Repo.GetRSVP(tx, eventID, userID)
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return ErrNotWaitlisted
		}
		if txErr != nil {
			return txErr
		}
		if rsvp.Status != StatusWaitlisted {
			return ErrNotWaitlisted
		}

		rsvp.Status = StatusCancelled
		rsvp.QueuePosition = nil
		if txErr := s.Repo.SaveRSVP(tx, rsvp); txErr != nil {
			return txErr
		}
		details := map[string]interface{}{"left_waitlist": true}
		if txErr := s.AuditSvc.LogActionTx(tx, &userID, &userID, &ev.ID, auditlog.ActionRSVPCancelled, details, ip); txErr != nil {
			return txErr
		}
		evts = append(evts, attendanceEvt(auditlog.ActionRSVPCancelled, ev, userID, userID, false))
		return nil
	})
	if err != nil {
		s.logFailure(ctx, userID, &userID, eventID, auditlog.ActionRSVPCancelled, err, ip)
		return err
	}
	s.afterCommit(ctx, eventID, evts)
	return nil
}

// MyRSVPs returns every RSVP the user holds, newest first.
func (s *Service) MyRSVPs(ctx context.Context, userID uint) ([]RSVP, error) {
	return s.Repo.ListRSVPsByUser(s.Repo.DB.WithContext(ctx), userID)
}

// ============================
// 🟢 Feedback aggregator

// UpsertFeedback records or overwrites feedback for (event, subject).
// Participants may only record their own; organizers may record on
// behalf of any participant.
func (s *Service) UpsertFeedback(ctx context.Context, eventID, subjectUserID uint, rating int, comment string, actorID uint, ip string) error {
	if rating < 1 || rating > 5 {
		s.logFailure(ctx, actorID, &subjectUserID, eventID, auditlog.ActionFeedbackRecorded, ErrInvalidFeedbackRating, ip)
		return ErrInvalidFeedbackRating
	}

	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, txErr := s.Repo.GetEvent(tx, eventID)
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		if txErr != nil {
			return txErr
		}
		if subjectUserID != actorID {
			if txErr := s.requireOrganizer(tx, ev, actorID); txErr != nil {
				return txErr
			}
		}

		fb := &Feedback{
			EventID: eventID,
			UserID:  subjectUserID,
			Rating:  rating,
			Comment: comment,
		}
		if txErr := s.Repo.UpsertFeedback(tx, fb); txErr != nil {
			return txErr
		}
		details := map[string]interface{}{"rating": rating}
		return s.AuditSvc.LogActionTx(tx, &actorID, &subjectUserID, &ev.ID, auditlog.ActionFeedbackRecorded, details, ip)
	})
	if err != nil {
		s.logFailure(ctx, actorID, &subjectUserID, eventID, auditlog.ActionFeedbackRecorded, err, ip)
	}
	return err
}

// ============================
// 📊 Organizer overview

// Overview returns the full organizer dashboard payload. Organizer-only.
func (s *Service) Overview(ctx context.Context, eventID, callerID uint) (*Overview, error) {
	db := s.Repo.DB.WithContext(ctx)
	ev, err := s.Repo.GetEvent(db, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(db, ev, callerID); err != nil {
		return nil, err
	}
	return s.buildOverview(ctx, db, ev)
}

// snapshot builds the same payload without the organizer gate. Used for
// the response body after a successful command, where the caller has
// already proven authority for the action performed.
func (s *Service) snapshot(ctx context.Context, eventID uint) (*Overview, error) {
	db := s.Repo.DB.WithContext(ctx)
	ev, err := s.Repo.GetEvent(db, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.buildOverview(ctx, db, ev)
}

func (s *Service) buildOverview(ctx context.Context, db *gorm.DB, ev *event.Event) (*Overview, error) {
	rsvps, err := s.Repo.ListRSVPs(db, ev.ID)
	if err != nil {
		return nil, err
	}
	feedback, err := s.Repo.ListFeedback(db, ev.ID)
	if err != nil {
		return nil, err
	}
	summary, err := s.attendanceSummary(ctx, db, ev)
	if err != nil {
		return nil, err
	}

	var avg *float64
	if len(feedback) > 0 {
		total := 0
		for _, fb := range feedback {
			total += fb.Rating
		}
		mean := float64(total) / float64(len(feedback))
		avg = &mean
	}

	return &Overview{
		Rsvps:    rsvps,
		Summary:  summary,
		Feedback: feedback,
		Meta: OverviewMeta{
			TotalRsvps:    len(rsvps),
			TotalFeedback: len(feedback),
			AverageRating: avg,
		},
	}, nil
}

// attendanceSummary builds the per-status counts, served from Redis when
// a fresh copy exists. Mutations invalidate the key on commit.
func (s *Service) attendanceSummary(ctx context.Context, db *gorm.DB, ev *event.Event) (AttendanceSummary, error) {
	key := summaryCacheKey(ev.ID)
	if raw := utils.CacheGet(ctx, key); raw != nil {
		var cached AttendanceSummary
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	counts, err := s.Repo.CountsByStatus(db, ev.ID)
	if err != nil {
		return AttendanceSummary{}, err
	}
	summary := AttendanceSummary{
		Confirmed:  int(counts[StatusConfirmed]),
		Waitlisted: int(counts[StatusWaitlisted]),
		Cancelled:  int(counts[StatusCancelled]),
		CheckedIn:  int(counts[StatusCheckedIn]),
		NoShow:     int(counts[StatusNoShow]),
	}
	if ev.Capacity != nil {
		rem := *ev.Capacity - summary.Confirmed
		if rem < 0 {
			rem = 0
		}
		summary.RemainingCapacity = &rem
	}

	if raw, err := json.Marshal(summary); err == nil {
		utils.CacheSet(ctx, key, raw, summaryCacheTTL)
	}
	return summary, nil
}
