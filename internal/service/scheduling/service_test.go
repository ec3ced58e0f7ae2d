package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/service/scheduling"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sweeper"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/create_session"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/reschedule_session"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/submit_feedback"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/update_status"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/usecasetest"
)

func newEngine(env *usecasetest.Env) *scheduling.Service {
	svc := scheduling.Build(scheduling.Dependencies{
		Sessions:      env.Store.Sessions(),
		Mentors:       env.Store.Mentors(),
		Stats:         env.Store.Stats(),
		Relationships: env.Store.Relationships(),
		Users:         env.Users,
		TxManager:     env.Store.TxManager(),
		Dispatcher:    env.Dispatcher,
		Rules:         env.Rules,
		Logger:        env.Logger,
	})
	svc.SetTimeProvider(env.Clock)
	return svc
}

func mondayProfile(t *testing.T, env *usecasetest.Env, maxPerDay int) *domain.MentorProfile {
	profile := domain.DefaultMentorProfile(env.Mentor())
	profile.Weekly.Monday = domain.DayAvailability{Available: true, Start: "09:00", End: "12:00"}
	profile.Weekly.Tuesday = domain.DayAvailability{Available: true, Start: "09:00", End: "12:00"}
	profile.MaxSessionsPerDay = maxPerDay
	return env.Profile(t, profile)
}

func book(ctx context.Context, svc *scheduling.Service, mentor, mentee uuid.UUID, at time.Time) (*create_session.Response, error) {
	return svc.CreateSession(ctx, &create_session.Request{
		ActorID:         mentee,
		MentorID:        mentor,
		MenteeID:        mentee,
		Title:           "Go-to-market review",
		ScheduledAt:     at,
		DurationMinutes: 60,
	})
}

func TestEngineBookingFlow(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newEngine(env)
	ctx := context.Background()
	profile := mondayProfile(t, env, 2)
	mentor := profile.MentorID
	first, second := env.Mentee(), env.Mentee()
	env.Relate(t, mentor, first)
	env.Relate(t, mentor, second)

	// 1. Свободные слоты понедельника
	slots, err := svc.GetAvailableSlots(ctx, &get_available_slots.Request{
		MentorID:        mentor,
		StartDate:       usecasetest.NextMonday,
		EndDate:         usecasetest.NextMonday,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Len(t, slots.Slots, 4)

	// 2. Бронь, пересечение и дневной лимит
	created, err := book(ctx, svc, mentor, first, usecasetest.At(9, 0))
	require.NoError(t, err)

	_, err = book(ctx, svc, mentor, second, usecasetest.At(9, 30))
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = book(ctx, svc, mentor, second, usecasetest.At(10, 0))
	require.NoError(t, err)

	_, err = book(ctx, svc, mentor, second, usecasetest.At(11, 0))
	assert.ErrorIs(t, err, domain.ErrDailyCapacityReached)

	slots, err = svc.GetAvailableSlots(ctx, &get_available_slots.Request{
		MentorID:        mentor,
		StartDate:       usecasetest.NextMonday,
		EndDate:         usecasetest.NextMonday,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	for _, slot := range slots.Slots {
		assert.False(t, slot.Start.Before(usecasetest.At(11, 0)), "slot %s overlaps a booking", slot.Start)
	}

	// 3. Проведение и отзывы
	env.Clock.Set(usecasetest.At(9, 0))
	_, err = svc.UpdateStatus(ctx, &update_status.Request{SessionID: created.Session.ID, Status: "in_progress", ActorID: mentor})
	require.NoError(t, err)
	env.Clock.Set(usecasetest.At(10, 0))
	done, err := svc.UpdateStatus(ctx, &update_status.Request{SessionID: created.Session.ID, Status: "completed", ActorID: mentor})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, done.PreviousStatus)

	_, err = svc.SubmitFeedback(ctx, &submit_feedback.Request{SessionID: created.Session.ID, ActorID: mentor, Rating: 4, Outcome: domain.OutcomeProgress})
	require.NoError(t, err)
	fb, err := svc.SubmitFeedback(ctx, &submit_feedback.Request{SessionID: created.Session.ID, ActorID: first, Rating: 5, WouldRecommend: true})
	require.NoError(t, err)
	assert.True(t, fb.FeedbackComplete)
	require.NotNil(t, fb.AvgRating)
	assert.InDelta(t, 4.5, *fb.AvgRating, 0.0001)

	// 4. Показатели ментора
	env.Clock.Set(usecasetest.NextMonday.AddDate(0, 0, 1))
	m, err := svc.GetMentorMetrics(ctx, mentor, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, m.PeriodDays)
	assert.Equal(t, 2, m.TotalSessions)
	assert.Equal(t, 1, m.CompletedSessions)
	assert.Equal(t, 1, m.PendingSessions)
	assert.InDelta(t, 1.0, m.TotalHours, 0.0001)
	assert.Equal(t, 2, m.UniqueMentees)
	require.NotNil(t, m.AvgSessionRating)
	assert.InDelta(t, 4.5, *m.AvgSessionRating, 0.0001)
	assert.Equal(t, 1, m.LifetimeCompletedSessions)
}

func TestEngineRescheduleKeepsHistory(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newEngine(env)
	ctx := context.Background()
	profile := mondayProfile(t, env, 0)
	mentee := env.Mentee()
	env.Relate(t, profile.MentorID, mentee)

	created, err := book(ctx, svc, profile.MentorID, mentee, usecasetest.At(9, 0))
	require.NoError(t, err)

	tuesday := usecasetest.At(10, 0).AddDate(0, 0, 1)
	moved, err := svc.RescheduleSession(ctx, &reschedule_session.Request{
		SessionID: created.Session.ID,
		NewStart:  tuesday,
		Reason:    "travel",
		ActorID:   mentee,
	})
	require.NoError(t, err)
	assert.Equal(t, usecasetest.At(9, 0), moved.PreviousTime)
	assert.Equal(t, domain.StatusRescheduled, moved.Session.Status)

	got := env.Get(t, created.Session.ID)
	assert.Equal(t, tuesday, got.ScheduledAt)
	require.NotNil(t, got.OriginalStart)
	assert.Equal(t, usecasetest.At(9, 0), *got.OriginalStart)
	require.Len(t, got.RescheduleHistory, 1)
	assert.Equal(t, "travel", got.RescheduleHistory[0].Reason)

	// прежнее время снова свободно
	_, err = book(ctx, svc, profile.MentorID, mentee, usecasetest.At(9, 0))
	require.NoError(t, err)
}

func TestEngineExpirySweepIsIdempotent(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newEngine(env)
	ctx := context.Background()
	mentor, mentee := env.Pair(t)
	stale := env.Session(t, mentor, mentee, usecasetest.Now.Add(-30*time.Hour), domain.StatusScheduled)

	result, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, domain.StatusNoShow, env.Get(t, stale.ID).Status)

	again, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, sweeper.SweepResult{}, *again)

	// NO_SHOW терминален для ручных переходов
	_, err = svc.UpdateStatus(ctx, &update_status.Request{SessionID: stale.ID, Status: "cancelled", ActorID: mentor})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestEngineCancelRightAfterBookingReleasesSideEffects(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newEngine(env)
	ctx := context.Background()
	profile := mondayProfile(t, env, 2)
	mentee := env.Mentee()
	env.Relate(t, profile.MentorID, mentee)

	created, err := book(ctx, svc, profile.MentorID, mentee, usecasetest.At(9, 0))
	require.NoError(t, err)

	// без ожидания эффектов создания
	_, err = svc.UpdateStatus(ctx, &update_status.Request{SessionID: created.Session.ID, Status: "cancelled", ActorID: mentee})
	require.NoError(t, err)
	env.Dispatcher.Wait()

	assert.Equal(t, 1, env.Calendar.CreatedCount())
	assert.Equal(t, []string{"evt-" + created.Session.ID.String()}, env.Calendar.CancelledIDs())
	assert.Equal(t, 0, env.Reminders.ActiveCount())
	assert.Empty(t, env.Get(t, created.Session.ID).ReminderHandles)
}
