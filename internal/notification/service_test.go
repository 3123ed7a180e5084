package notification

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
	"github.com/rahulpatwa/community-events-backend/utils"
)

type fakeChannel struct {
	recipients []string
	subject    string
	body       string
	calls      int
}

func (f *fakeChannel) Send(recipients []string, subject, body string) error {
	f.recipients = recipients
	f.subject = subject
	f.body = body
	f.calls++
	return nil
}

func newTestNotificationService(t *testing.T) (Service, Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&InAppNotification{}, &FCMDeviceToken{}))

	repo := NewRepository(db)
	return NewService(repo, &fakeChannel{}), repo
}

func TestNotifyAttendanceStoresInApp(t *testing.T) {
	svc, repo := newTestNotificationService(t)
	ctx := context.Background()

	err := svc.NotifyAttendance(ctx, utils.AttendanceEvent{
		Action:       auditlog.ActionRSVPConfirmed,
		EventID:      7,
		EventTitle:   "Board Game Night",
		TargetUserID: 42,
		ActorUserID:  1,
		Promoted:     true,
		OccurredAt:   time.Now(),
	})
	require.NoError(t, err)

	items, total, err := repo.ListByUser(ctx, 42, false, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, CategoryWaitlist, items[0].Category)
	assert.Contains(t, items[0].Title, "off the waitlist")
	assert.Contains(t, items[0].Message, "Board Game Night")
	require.NotNil(t, items[0].EventID)
	assert.EqualValues(t, 7, *items[0].EventID)
}

func TestNotifyAttendanceSkipsNoShow(t *testing.T) {
	svc, repo := newTestNotificationService(t)
	ctx := context.Background()

	err := svc.NotifyAttendance(ctx, utils.AttendanceEvent{
		Action:       auditlog.ActionMarkedNoShow,
		EventID:      7,
		EventTitle:   "Board Game Night",
		TargetUserID: 42,
	})
	require.NoError(t, err)

	_, total, err := repo.ListByUser(ctx, 42, false, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestMarkReadFlow(t *testing.T) {
	svc, repo := newTestNotificationService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateNotification(ctx, &InAppNotification{
			UserID: 42, Title: "t", Message: "m", Category: CategorySystem,
		}))
	}

	page, err := svc.ListMyNotifications(ctx, 42, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.UnreadCount)

	require.NoError(t, svc.MarkRead(ctx, 42, page.Data[0].ID))
	page, err = svc.ListMyNotifications(ctx, 42, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.UnreadCount)

	// marking another user's notification is a not-found, not a grab
	err = svc.MarkRead(ctx, 99, page.Data[0].ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, svc.MarkAllRead(ctx, 42))
	page, err = svc.ListMyNotifications(ctx, 42, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.UnreadCount)
}

func TestDeviceTokenLifecycle(t *testing.T) {
	svc, repo := newTestNotificationService(t)
	ctx := context.Background()

	require.NoError(t, svc.RegisterDeviceToken(ctx, 42, RegisterTokenRequest{
		DeviceToken: "tok-1", DeviceType: "android",
	}))
	// re-registering the same token must not duplicate it
	require.NoError(t, svc.RegisterDeviceToken(ctx, 42, RegisterTokenRequest{
		DeviceToken: "tok-1", DeviceType: "android", DeviceName: "Pixel",
	}))
	require.NoError(t, svc.RegisterDeviceToken(ctx, 42, RegisterTokenRequest{
		DeviceToken: "tok-2", DeviceType: "web",
	}))

	tokens, err := repo.ActiveTokensForUser(ctx, 42)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, tokens)

	require.NoError(t, svc.RemoveDeviceToken(ctx, 42, "tok-1"))
	tokens, err = repo.ActiveTokensForUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-2"}, tokens)
}
