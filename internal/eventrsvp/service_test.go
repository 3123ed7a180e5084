package eventrsvp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rahulpatwa/community-events-backend/internal/auditlog"
	"github.com/rahulpatwa/community-events-backend/internal/event"
)

const (
	organizerID   = uint(1)
	coOrganizerID = uint(2)
	outsiderID    = uint(3)
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&event.Event{},
		&event.EventOrganizer{},
		&RSVP{},
		&Feedback{},
		&auditlog.AuditLog{},
	))

	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	return NewService(NewRepository(db), auditSvc)
}

func createTestEvent(t *testing.T, svc *Service, capacity *int, waitlistEnabled bool) *event.Event {
	t.Helper()

	ev := &event.Event{
		Title:           "Community Picnic",
		Location:        "Riverside Park",
		StartsAt:        time.Now().Add(48 * time.Hour),
		OrganizerID:     organizerID,
		Capacity:        capacity,
		WaitlistEnabled: waitlistEnabled,
		IsActive:        true,
	}
	require.NoError(t, svc.Repo.DB.Create(ev).Error)
	require.NoError(t, svc.Repo.DB.Create(&event.EventOrganizer{EventID: ev.ID, UserID: coOrganizerID}).Error)
	return ev
}

func intp(v int) *int { return &v }

func rsvpStatus(t *testing.T, svc *Service, eventID, userID uint) string {
	t.Helper()
	r, err := svc.Repo.GetRSVP(svc.Repo.DB, eventID, userID)
	require.NoError(t, err)
	return r.Status
}

func TestJoinFillsCapacityThenWaitlists(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(2), true)
	ctx := context.Background()

	status, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	status, err = svc.Join(ctx, ev.ID, 11, "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	// seats are gone, the next two go to the back of the queue
	status, err = svc.Join(ctx, ev.ID, 12, "")
	require.NoError(t, err)
	assert.Equal(t, StatusWaitlisted, status)

	status, err = svc.Join(ctx, ev.ID, 13, "")
	require.NoError(t, err)
	assert.Equal(t, StatusWaitlisted, status)

	waitlisted, err := svc.Repo.ListWaitlisted(svc.Repo.DB, ev.ID)
	require.NoError(t, err)
	require.Len(t, waitlisted, 2)
	assert.Equal(t, uint(12), waitlisted[0].UserID)
	assert.Equal(t, 1, *waitlisted[0].QueuePosition)
	assert.Equal(t, uint(13), waitlisted[1].UserID)
	assert.Equal(t, 2, *waitlisted[1].QueuePosition)

	confirmed, err := svc.Repo.CountByStatus(svc.Repo.DB, ev.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.EqualValues(t, 2, confirmed)
}

func TestJoinFullEventWithoutWaitlist(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(1), false)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)

	_, err = svc.Join(ctx, ev.ID, 11, "")
	require.ErrorIs(t, err, ErrEventFull)
}

func TestJoinTwiceIsRejected(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)

	_, err = svc.Join(ctx, ev.ID, 10, "")
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestCancelPromotesHeadOfWaitlist(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(2), true)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, ev.ID, 11, "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, ev.ID, 12, "")
	require.NoError(t, err)
	require.Equal(t, StatusWaitlisted, rsvpStatus(t, svc, ev.ID, 12))

	require.NoError(t, svc.Cancel(ctx, ev.ID, 10, organizerID, ""))

	// the freed seat goes to the queue head within the same transaction
	assert.Equal(t, StatusCancelled, rsvpStatus(t, svc, ev.ID, 10))
	assert.Equal(t, StatusConfirmed, rsvpStatus(t, svc, ev.ID, 12))

	overview, err := svc.Overview(ctx, ev.ID, organizerID)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Summary.Confirmed)
	assert.Equal(t, 0, overview.Summary.Waitlisted)
	assert.Equal(t, 1, overview.Summary.Cancelled)
	require.NotNil(t, overview.Summary.RemainingCapacity)
	assert.Equal(t, 0, *overview.Summary.RemainingCapacity)
}

func TestCancellingWaitlistedDoesNotPromote(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(1), true)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, ev.ID, 11, "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, ev.ID, 12, "")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, ev.ID, 11, organizerID, ""))

	// 12 keeps waiting: no confirmed seat was freed
	assert.Equal(t, StatusWaitlisted, rsvpStatus(t, svc, ev.ID, 12))
}

func TestSweepPromotesInQueueOrder(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(5), true)
	ctx := context.Background()

	for _, userID := range []uint{20, 21, 22} {
		require.NoError(t, svc.Waitlist(ctx, ev.ID, userID, organizerID, ""))
	}

	promoted, err := svc.SweepWaitlist(ctx, ev.ID, organizerID, "")
	require.NoError(t, err)
	assert.Equal(t, 3, promoted)

	for _, userID := range []uint{20, 21, 22} {
		assert.Equal(t, StatusConfirmed, rsvpStatus(t, svc, ev.ID, userID))
	}
}

func TestSweepStopsAtCapacityAndKeepsOrder(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(2), true)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	for _, userID := range []uint{20, 21, 22} {
		require.NoError(t, svc.Waitlist(ctx, ev.ID, userID, organizerID, ""))
	}

	promoted, err := svc.SweepWaitlist(ctx, ev.ID, organizerID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	assert.Equal(t, StatusConfirmed, rsvpStatus(t, svc, ev.ID, 20))
	assert.Equal(t, StatusWaitlisted, rsvpStatus(t, svc, ev.ID, 21))
	assert.Equal(t, StatusWaitlisted, rsvpStatus(t, svc, ev.ID, 22))

	waitlisted, err := svc.Repo.ListWaitlisted(svc.Repo.DB, ev.ID)
	require.NoError(t, err)
	require.Len(t, waitlisted, 2)
	assert.Equal(t, uint(21), waitlisted[0].UserID)
	assert.Equal(t, uint(22), waitlisted[1].UserID)
}

func TestSweepIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(2), true)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	require.NoError(t, svc.Waitlist(ctx, ev.ID, 20, organizerID, ""))

	promoted, err := svc.SweepWaitlist(ctx, ev.ID, organizerID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	promoted, err = svc.SweepWaitlist(ctx, ev.ID, organizerID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, promoted)
}

func TestOrganizerConfirmIsCapacityOverride(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(1), false)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)

	// the organizer can push past capacity but gets warned
	exceeded, err := svc.Confirm(ctx, ev.ID, 11, organizerID, "")
	require.NoError(t, err)
	assert.True(t, exceeded)

	confirmed, err := svc.Repo.CountByStatus(svc.Repo.DB, ev.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.EqualValues(t, 2, confirmed)
}

func TestConfirmAlreadyConfirmed(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, ev.ID, 10, organizerID, "")
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, ev.ID, 10, organizerID, "")
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestWaitlistDisabled(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(5), false)

	err := svc.Waitlist(context.Background(), ev.ID, 10, organizerID, "")
	require.ErrorIs(t, err, ErrWaitlistDisabled)
}

func TestAuthorizationGate(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, true)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, ev.ID, 10, outsiderID, "")
	require.ErrorIs(t, err, ErrNotOrganizer)

	_, err = svc.Overview(ctx, ev.ID, outsiderID)
	require.ErrorIs(t, err, ErrNotOrganizer)

	// co-organizers carry the same authority as the organizer
	_, err = svc.Confirm(ctx, ev.ID, 10, coOrganizerID, "")
	require.NoError(t, err)

	_, err = svc.Overview(ctx, ev.ID, coOrganizerID)
	require.NoError(t, err)
}

func TestEventNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, 9999, 10, organizerID, "")
	require.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.Join(ctx, 9999, 10, "")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestCheckInLifecycle(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(1), true)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, ev.ID, 11, "")
	require.NoError(t, err)

	// a waitlisted participant holds no seat to check in to
	err = svc.CheckIn(ctx, ev.ID, 11, organizerID, "")
	require.ErrorIs(t, err, ErrNotAttending)

	require.NoError(t, svc.CheckIn(ctx, ev.ID, 10, organizerID, ""))
	r, err := svc.Repo.GetRSVP(svc.Repo.DB, ev.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, r.Status)
	require.NotNil(t, r.CheckedInAt)

	err = svc.CheckIn(ctx, ev.ID, 10, organizerID, "")
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)

	err = svc.CheckIn(ctx, ev.ID, 99, organizerID, "")
	require.ErrorIs(t, err, ErrNotAttending)
}

func TestMarkNoShow(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)

	require.NoError(t, svc.MarkNoShow(ctx, ev.ID, 10, organizerID, ""))
	assert.Equal(t, StatusNoShow, rsvpStatus(t, svc, ev.ID, 10))

	// only CONFIRMED can become NO_SHOW
	err = svc.MarkNoShow(ctx, ev.ID, 10, organizerID, "")
	require.ErrorIs(t, err, ErrNotAttending)
}

func TestCancelWithoutRSVP(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	err := svc.Cancel(ctx, ev.ID, 10, organizerID, "")
	require.ErrorIs(t, err, ErrNotAttending)

	_, err = svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, ev.ID, 10, organizerID, ""))

	err = svc.Cancel(ctx, ev.ID, 10, organizerID, "")
	require.ErrorIs(t, err, ErrNotAttending)
}

func TestReRequestAfterCancel(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	require.NoError(t, svc.Leave(ctx, ev.ID, 10, ""))
	assert.Equal(t, StatusCancelled, rsvpStatus(t, svc, ev.ID, 10))

	// cancellation keeps the row, a fresh join reuses it
	status, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&RSVP{}).
		Where("event_id = ? AND user_id = ?", ev.ID, 10).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestJoinAfterNoShowRequiresOrganizer(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)
	require.NoError(t, svc.MarkNoShow(ctx, ev.ID, 10, organizerID, ""))

	// a no-show cannot rejoin on their own
	_, err = svc.Join(ctx, ev.ID, 10, "")
	assert.ErrorIs(t, err, ErrNotAttending)
	assert.Equal(t, StatusNoShow, rsvpStatus(t, svc, ev.ID, 10))

	// an organizer confirm is the way back in
	_, err = svc.Confirm(ctx, ev.ID, 10, organizerID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, rsvpStatus(t, svc, ev.ID, 10))
}

func TestLeaveWaitlist(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(1), true)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "")
	require.NoError(t, err)

	err = svc.LeaveWaitlist(ctx, ev.ID, 10, "")
	require.ErrorIs(t, err, ErrNotWaitlisted)

	_, err = svc.Join(ctx, ev.ID, 11, "")
	require.NoError(t, err)
	require.Equal(t, StatusWaitlisted, rsvpStatus(t, svc, ev.ID, 11))

	require.NoError(t, svc.LeaveWaitlist(ctx, ev.ID, 11, ""))
	assert.Equal(t, StatusCancelled, rsvpStatus(t, svc, ev.ID, 11))
}

func TestFeedbackRatingBounds(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	err := svc.UpsertFeedback(ctx, ev.ID, 10, 0, "", 10, "")
	require.ErrorIs(t, err, ErrInvalidFeedbackRating)

	err = svc.UpsertFeedback(ctx, ev.ID, 10, 6, "", 10, "")
	require.ErrorIs(t, err, ErrInvalidFeedbackRating)

	require.NoError(t, svc.UpsertFeedback(ctx, ev.ID, 10, 1, "meh", 10, ""))
	require.NoError(t, svc.UpsertFeedback(ctx, ev.ID, 10, 5, "great", 10, ""))
}

func TestFeedbackAuthorizationAndAverage(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	// participants may only record their own feedback
	err := svc.UpsertFeedback(ctx, ev.ID, 11, 4, "", 10, "")
	require.ErrorIs(t, err, ErrNotOrganizer)

	require.NoError(t, svc.UpsertFeedback(ctx, ev.ID, 10, 5, "loved it", 10, ""))
	// organizers may record on behalf of a participant
	require.NoError(t, svc.UpsertFeedback(ctx, ev.ID, 11, 3, "", organizerID, ""))

	overview, err := svc.Overview(ctx, ev.ID, organizerID)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Meta.TotalFeedback)
	require.NotNil(t, overview.Meta.AverageRating)
	assert.InDelta(t, 4.0, *overview.Meta.AverageRating, 0.001)

	// the upsert overwrites rather than appending
	require.NoError(t, svc.UpsertFeedback(ctx, ev.ID, 10, 4, "revised", 10, ""))
	overview, err = svc.Overview(ctx, ev.ID, organizerID)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Meta.TotalFeedback)
	assert.InDelta(t, 3.5, *overview.Meta.AverageRating, 0.001)
}

func TestOverviewEmptyEvent(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(10), true)

	overview, err := svc.Overview(context.Background(), ev.ID, organizerID)
	require.NoError(t, err)
	assert.Empty(t, overview.Rsvps)
	assert.Equal(t, 0, overview.Meta.TotalRsvps)
	assert.Nil(t, overview.Meta.AverageRating)
	require.NotNil(t, overview.Summary.RemainingCapacity)
	assert.Equal(t, 10, *overview.Summary.RemainingCapacity)
}

func TestAuditTrailWrittenPerTransition(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(1), true)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 10, "203.0.113.7")
	require.NoError(t, err)
	_, err = svc.Join(ctx, ev.ID, 11, "203.0.113.8")
	require.NoError(t, err)
	require.NoError(t, svc.Leave(ctx, ev.ID, 10, "203.0.113.7"))

	var entries []auditlog.AuditLog
	require.NoError(t, svc.Repo.DB.Order("id ASC").Find(&entries).Error)

	// join, waitlist, cancel, promotion: four success entries
	var actions []string
	for _, e := range entries {
		require.Equal(t, "success", e.Status)
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{
		auditlog.ActionRSVPConfirmed,
		auditlog.ActionRSVPWaitlisted,
		auditlog.ActionRSVPCancelled,
		auditlog.ActionRSVPConfirmed,
	}, actions)
}

func TestFailedMutationLeavesFailureEntry(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, ev.ID, 10, outsiderID, "")
	require.ErrorIs(t, err, ErrNotOrganizer)

	var entries []auditlog.AuditLog
	require.NoError(t, svc.Repo.DB.Where("status = ?", "failure").Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, auditlog.ActionRSVPConfirmed, entries[0].Action)
}
