package notify

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	applogger "github.com/m04kA/SMC-MentorshipService/pkg/logger"
)

func newInbox(t *testing.T) *Inbox {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))

	inbox := NewInbox(db, applogger.NewNop())
	clock := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	inbox.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return inbox
}

func TestInboxStoresAndLists(t *testing.T) {
	inbox := newInbox(t)
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()

	require.NoError(t, inbox.Notify(ctx, domain.Notification{
		UserID:  user,
		Type:    domain.NotificationSessionCreated,
		Title:   "Session scheduled",
		Message: "Pitch review on Monday",
		Data:    map[string]interface{}{"sessionId": "s-1"},
	}))
	require.NoError(t, inbox.Notify(ctx, domain.Notification{UserID: user, Type: domain.NotificationFeedbackRequest, Title: "Share your feedback"}))
	require.NoError(t, inbox.Notify(ctx, domain.Notification{UserID: other, Type: domain.NotificationSessionNoShow, Title: "No-show"}))

	rows, err := inbox.ListForUser(ctx, user, false, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, string(domain.NotificationFeedbackRequest), rows[0].Type, "newest first")

	data, err := rows[1].DecodeData()
	require.NoError(t, err)
	assert.Equal(t, "s-1", data["sessionId"])
}

func TestInboxMarkRead(t *testing.T) {
	inbox := newInbox(t)
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, inbox.Notify(ctx, domain.Notification{UserID: user, Type: domain.NotificationSessionReminder, Title: "Starts soon"}))
	rows, err := inbox.ListForUser(ctx, user, true, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.ErrorIs(t, inbox.MarkRead(ctx, uuid.New(), rows[0].ID), ErrNotificationNotFound)
	require.NoError(t, inbox.MarkRead(ctx, user, rows[0].ID))
	require.NoError(t, inbox.MarkRead(ctx, user, rows[0].ID), "repeated mark is a no-op")

	unread, err := inbox.ListForUser(ctx, user, true, 10)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
