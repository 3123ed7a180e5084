package eventrsvp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextQueuePosition(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(1), true)
	db := svc.Repo.DB

	pos, err := svc.Repo.NextQueuePosition(db, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	one, two := 1, 2
	require.NoError(t, db.Create(&RSVP{EventID: ev.ID, UserID: 10, Status: StatusWaitlisted, QueuePosition: &one}).Error)
	require.NoError(t, db.Create(&RSVP{EventID: ev.ID, UserID: 11, Status: StatusWaitlisted, QueuePosition: &two}).Error)

	pos, err = svc.Repo.NextQueuePosition(db, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	// a departure from the tail frees its position for reassignment;
	// new entries still land behind everyone left in the queue
	require.NoError(t, db.Model(&RSVP{}).
		Where("event_id = ? AND user_id = ?", ev.ID, 11).
		Updates(map[string]interface{}{"status": StatusCancelled, "queue_position": nil}).Error)

	pos, err = svc.Repo.NextQueuePosition(db, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestQueuePositionScopedPerEvent(t *testing.T) {
	svc := newTestService(t)
	ev1 := createTestEvent(t, svc, intp(1), true)
	ev2 := createTestEvent(t, svc, intp(1), true)
	db := svc.Repo.DB

	five := 5
	require.NoError(t, db.Create(&RSVP{EventID: ev1.ID, UserID: 10, Status: StatusWaitlisted, QueuePosition: &five}).Error)

	pos, err := svc.Repo.NextQueuePosition(db, ev2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestCountsByStatus(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, true)
	db := svc.Repo.DB

	for i, status := range []string{
		StatusConfirmed, StatusConfirmed, StatusWaitlisted, StatusCancelled, StatusCheckedIn,
	} {
		require.NoError(t, db.Create(&RSVP{EventID: ev.ID, UserID: uint(100 + i), Status: status}).Error)
	}

	counts, err := svc.Repo.CountsByStatus(db, ev.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[StatusConfirmed])
	assert.EqualValues(t, 1, counts[StatusWaitlisted])
	assert.EqualValues(t, 1, counts[StatusCancelled])
	assert.EqualValues(t, 1, counts[StatusCheckedIn])
	assert.EqualValues(t, 0, counts[StatusNoShow])
}

func TestUpsertFeedbackOverwrites(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	db := svc.Repo.DB

	require.NoError(t, svc.Repo.UpsertFeedback(db, &Feedback{EventID: ev.ID, UserID: 10, Rating: 2, Comment: "ok"}))
	require.NoError(t, svc.Repo.UpsertFeedback(db, &Feedback{EventID: ev.ID, UserID: 10, Rating: 5, Comment: "much better"}))

	fbs, err := svc.Repo.ListFeedback(db, ev.ID)
	require.NoError(t, err)
	require.Len(t, fbs, 1)
	assert.Equal(t, 5, fbs[0].Rating)
	assert.Equal(t, "much better", fbs[0].Comment)
}
