package reschedule_session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/usecasetest"
)

func newUseCase(env *usecasetest.Env) *UseCase {
	uc := NewUseCase(
		env.Store.Sessions(),
		env.Store.Mentors(),
		env.Store.TxManager(),
		env.Dispatcher,
		env.Metrics,
		env.Rules,
		env.Logger,
	)
	uc.SetTimeProvider(env.Clock)
	return uc
}

func TestRescheduleAppendsHistory(t *testing.T) {
	env := usecasetest.NewEnv()
	uc := newUseCase(env)
	mentor, mentee := env.Mentor(), env.Mentee()
	t1 := usecasetest.At(9, 0)
	t2 := usecasetest.At(11, 0)
	t3 := usecasetest.At(14, 0)
	s := env.Session(t, mentor, mentee, t1, domain.StatusScheduled)

	resp, err := uc.Execute(context.Background(), &Request{SessionID: s.ID, NewStart: t2, Reason: "conflict", ActorID: mentor})
	require.NoError(t, err)
	assert.Equal(t, t1, resp.PreviousTime)

	got := env.Get(t, s.ID)
	assert.Equal(t, t2, got.ScheduledAt)
	assert.Equal(t, domain.StatusRescheduled, got.Status)
	require.Len(t, got.RescheduleHistory, 1)
	assert.Equal(t, t1, got.RescheduleHistory[0].PreviousTime)
	require.NotNil(t, got.OriginalStart)
	assert.Equal(t, t1, *got.OriginalStart)
	assert.True(t, got.WasRescheduled())

	_, err = uc.Execute(context.Background(), &Request{SessionID: s.ID, NewStart: t3, ActorID: mentee})
	require.NoError(t, err)

	got = env.Get(t, s.ID)
	require.Len(t, got.RescheduleHistory, 2)
	assert.Equal(t, t2, got.RescheduleHistory[1].PreviousTime)
	assert.Equal(t, t1, *got.OriginalStart)
	assert.Equal(t, 2, got.RescheduleCount)
	assert.Len(t, got.StatusHistory, 1)
}

func TestRescheduleIgnoresItselfButNotOthers(t *testing.T) {
	env := usecasetest.NewEnv()
	uc := newUseCase(env)
	mentor, mentee := env.Mentor(), env.Mentee()
	s := env.Session(t, mentor, mentee, usecasetest.At(9, 0), domain.StatusScheduled)
	env.Session(t, mentor, env.Mentee(), usecasetest.At(11, 0), domain.StatusScheduled)

	// сдвиг на 30 минут пересекается только с самой сессией
	_, err := uc.Execute(context.Background(), &Request{SessionID: s.ID, NewStart: usecasetest.At(9, 30), ActorID: mentor})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{SessionID: s.ID, NewStart: usecasetest.At(10, 30), ActorID: mentor})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got := env.Get(t, s.ID)
	assert.Equal(t, usecasetest.At(9, 30), got.ScheduledAt)
	assert.Len(t, got.RescheduleHistory, 1)
}

func TestRescheduleRules(t *testing.T) {
	env := usecasetest.NewEnv()
	uc := newUseCase(env)
	mentor, mentee := env.Mentor(), env.Mentee()

	completed := env.Session(t, mentor, mentee, usecasetest.At(9, 0), domain.StatusInProgress)
	_, err := uc.Execute(context.Background(), &Request{SessionID: completed.ID, NewStart: usecasetest.At(15, 0), ActorID: mentor})
	assert.ErrorIs(t, err, domain.ErrRescheduleNotAllowed)

	s := env.Session(t, mentor, mentee, usecasetest.At(12, 0), domain.StatusScheduled)
	_, err = uc.Execute(context.Background(), &Request{SessionID: s.ID, NewStart: usecasetest.Now.Add(10 * time.Minute), ActorID: mentor})
	assert.ErrorIs(t, err, domain.ErrTooLateToSchedule)

	profile := domain.DefaultMentorProfile(mentor)
	profile.MaxSessionsPerDay = 2
	env.Profile(t, profile)
	tuesday := usecasetest.At(9, 0).AddDate(0, 0, 1)
	env.Session(t, mentor, env.Mentee(), tuesday, domain.StatusScheduled)
	env.Session(t, mentor, env.Mentee(), tuesday.Add(2*time.Hour), domain.StatusScheduled)
	_, err = uc.Execute(context.Background(), &Request{SessionID: s.ID, NewStart: tuesday.Add(4 * time.Hour), ActorID: mentor})
	assert.ErrorIs(t, err, domain.ErrDailyCapacityReached)

	// на тот же день лимит не мешает: сессия не считает сама себя
	_, err = uc.Execute(context.Background(), &Request{SessionID: s.ID, NewStart: usecasetest.At(15, 0), ActorID: mentor})
	assert.NoError(t, err)
}

func TestRescheduleResyncsCalendarAndReminders(t *testing.T) {
	env := usecasetest.NewEnv()
	uc := newUseCase(env)
	mentor, mentee := env.Mentor(), env.Mentee()
	s := env.Session(t, mentor, mentee, usecasetest.At(9, 0), domain.StatusScheduled)
	ctx := context.Background()
	require.NoError(t, env.Store.Sessions().SetCalendarEvent(ctx, s.ID, domain.CalendarEventRef{EventID: "evt-1"}))
	require.NoError(t, env.Store.Sessions().SetReminderHandles(ctx, s.ID, []string{"old-1", "old-2"}))

	newStart := usecasetest.At(9, 0).AddDate(0, 0, 2)
	_, err := uc.Execute(ctx, &Request{SessionID: s.ID, NewStart: newStart, ActorID: mentor})
	require.NoError(t, err)
	env.Dispatcher.Wait()

	update, ok := env.Calendar.Updated["evt-1"]
	require.True(t, ok)
	assert.Equal(t, newStart, *update.Start)
	assert.ElementsMatch(t, []string{"old-1", "old-2"}, env.Reminders.Cancelled)
	assert.ElementsMatch(t, []time.Time{newStart.Add(-24 * time.Hour), newStart.Add(-time.Hour)}, env.Reminders.ActiveTimes())

	got := env.Get(t, s.ID)
	assert.Len(t, got.ReminderHandles, 2)
	assert.NotContains(t, got.ReminderHandles, "old-1")
	assert.Len(t, env.Notifier.OfType(domain.NotificationSessionRescheduled), 2)
}
