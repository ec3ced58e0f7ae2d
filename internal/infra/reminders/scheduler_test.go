package reminders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects/effectstest"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/reminders"
	"github.com/m04kA/SMC-MentorshipService/pkg/logger"
)

func payload(recipients ...uuid.UUID) domain.ReminderPayload {
	return domain.ReminderPayload{
		SessionID:  uuid.New(),
		Recipients: recipients,
		Title:      "Session starts soon",
		Message:    "Pitch review in 1 hour",
		StartsAt:   time.Now().Add(time.Hour),
	}
}

func TestSchedulerFiresReminder(t *testing.T) {
	notifier := effectstest.NewNotifier()
	s := reminders.NewScheduler(notifier, time.Second, logger.NewNop())
	defer s.Close()
	mentor, mentee := uuid.New(), uuid.New()

	handle, err := s.ScheduleAt(context.Background(), time.Now().Add(20*time.Millisecond), payload(mentor, mentee))
	require.NoError(t, err)
	assert.NotEmpty(t, handle)

	require.Eventually(t, func() bool {
		return len(notifier.OfType(domain.NotificationSessionReminder)) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.Pending())
}

func TestSchedulerCancel(t *testing.T) {
	notifier := effectstest.NewNotifier()
	s := reminders.NewScheduler(notifier, time.Second, logger.NewNop())
	defer s.Close()
	ctx := context.Background()

	handle, err := s.ScheduleAt(ctx, time.Now().Add(50*time.Millisecond), payload(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Pending())

	require.NoError(t, s.Cancel(ctx, handle))
	require.NoError(t, s.Cancel(ctx, handle))
	require.NoError(t, s.Cancel(ctx, "unknown"))
	assert.Equal(t, 0, s.Pending())

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, notifier.Sent())
}

func TestSchedulerRejects(t *testing.T) {
	s := reminders.NewScheduler(effectstest.NewNotifier(), time.Second, logger.NewNop())
	ctx := context.Background()

	_, err := s.ScheduleAt(ctx, time.Now().Add(time.Hour), payload())
	assert.ErrorIs(t, err, reminders.ErrNoRecipients)

	_, err = s.ScheduleAt(ctx, time.Now().Add(time.Hour), payload(uuid.New()))
	require.NoError(t, err)
	s.Close()
	assert.Equal(t, 0, s.Pending())

	_, err = s.ScheduleAt(ctx, time.Now().Add(time.Hour), payload(uuid.New()))
	assert.ErrorIs(t, err, reminders.ErrSchedulerClosed)
}

func TestSchedulerDropsRemindersOfInactiveSessions(t *testing.T) {
	refs := effectstest.NewRefs()
	notifier := effectstest.NewNotifier()
	s := reminders.NewScheduler(notifier, time.Second, logger.NewNop())
	s.SetSessionSource(refs)
	defer s.Close()
	ctx := context.Background()

	live, cancelled, moved := payload(uuid.New()), payload(uuid.New()), payload(uuid.New())
	refs.Put(&domain.Session{ID: live.SessionID, ScheduledAt: live.StartsAt, Status: domain.StatusScheduled})
	refs.Put(&domain.Session{ID: cancelled.SessionID, ScheduledAt: cancelled.StartsAt, Status: domain.StatusCancelled})
	refs.Put(&domain.Session{ID: moved.SessionID, ScheduledAt: moved.StartsAt.Add(time.Hour), Status: domain.StatusRescheduled})
	unknown := payload(uuid.New())

	for _, p := range []domain.ReminderPayload{live, cancelled, moved, unknown} {
		_, err := s.ScheduleAt(ctx, time.Now().Add(10*time.Millisecond), p)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return len(notifier.OfType(domain.NotificationSessionReminder)) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, 0, s.Pending())
	sent := notifier.OfType(domain.NotificationSessionReminder)
	require.Len(t, sent, 1)
	assert.Equal(t, live.Recipients[0], sent[0].UserID)
}
