package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-MentorshipService/pkg/ptr"
)

func newService(env *usecasetest.Env) *sessions.Service {
	svc := sessions.NewService(env.Store.Sessions(), env.Store.Stats(), env.Logger)
	svc.SetTimeProvider(env.Clock)
	return svc
}

func TestGetByIDChecksParticipant(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newService(env)
	mentor, mentee := env.Pair(t)
	s := env.Session(t, mentor, mentee, usecasetest.At(9, 0), domain.StatusScheduled)

	resp, err := svc.GetByID(context.Background(), s.ID, mentee)
	require.NoError(t, err)
	assert.Equal(t, s.ID, resp.ID)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "2026-10-19T09:00:00Z", resp.ScheduledAt)
	assert.Equal(t, "2026-10-19T10:00:00Z", resp.EndsAt)

	_, err = svc.GetByID(context.Background(), s.ID, uuid.New())
	assert.ErrorIs(t, err, sessions.ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), uuid.New(), mentee)
	assert.ErrorIs(t, err, sessions.ErrSessionNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListUserSessions(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newService(env)
	mentor, mentee := env.Pair(t)
	other := env.Mentee()

	env.Session(t, mentor, mentee, usecasetest.At(9, 0), domain.StatusScheduled)
	env.Session(t, mentor, mentee, usecasetest.At(11, 0), domain.StatusCancelled)
	env.Session(t, mentor, other, usecasetest.At(13, 0), domain.StatusScheduled)

	resp, err := svc.ListUserSessions(context.Background(), &models.ListUserSessionsRequest{
		UserID:      mentee,
		RequesterID: mentee,
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "2026-10-19T11:00:00Z", resp.Sessions[0].ScheduledAt, "newest first")

	resp, err = svc.ListUserSessions(context.Background(), &models.ListUserSessionsRequest{
		UserID:      mentor,
		RequesterID: mentor,
		Status:      ptr.Ptr("scheduled"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	_, err = svc.ListUserSessions(context.Background(), &models.ListUserSessionsRequest{
		UserID:      mentor,
		RequesterID: mentor,
		Status:      ptr.Ptr("lost"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ListUserSessions(context.Background(), &models.ListUserSessionsRequest{
		UserID:      mentor,
		RequesterID: mentee,
	})
	assert.ErrorIs(t, err, sessions.ErrAccessDenied)
}

func TestMentorMetrics(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newService(env)
	ctx := context.Background()
	mentor := env.Mentor()
	first, second := env.Mentee(), env.Mentee()

	past := func(days int) time.Time { return usecasetest.Now.AddDate(0, 0, -days) }

	completed := func(mentee uuid.UUID, at time.Time, minutes int, menteeRating int, avg *float64) {
		s := &domain.Session{
			ID:                    uuid.New(),
			MentorID:              mentor,
			MenteeID:              mentee,
			Title:                 "review",
			ScheduledAt:           at,
			DurationMinutes:       60,
			Status:                domain.StatusCompleted,
			ActualDurationMinutes: ptr.Ptr(minutes),
			CompletedAt:           ptr.Ptr(at.Add(time.Duration(minutes) * time.Minute)),
			FeedbackComplete:      avg != nil,
			AvgRating:             avg,
		}
		if menteeRating > 0 {
			s.MenteeFeedback = &domain.MenteeFeedback{Rating: menteeRating}
			s.MenteeFeedbackReceived = true
		}
		_, err := env.Store.Sessions().Create(ctx, s)
		require.NoError(t, err)
	}

	completed(first, past(2), 90, 5, ptr.Ptr(4.5))
	completed(first, past(5), 30, 4, nil)
	completed(second, past(10), 60, 0, nil)
	env.Session(t, mentor, second, past(3), domain.StatusCancelled)
	env.Session(t, mentor, first, past(4), domain.StatusNoShow)
	env.Session(t, mentor, second, past(45), domain.StatusCompleted)         // вне периода
	env.Session(t, mentor, first, usecasetest.At(9, 0), domain.StatusScheduled) // в будущем

	require.NoError(t, env.Store.Stats().IncrementCompleted(ctx, mentor, 12.5))

	resp, err := svc.MentorMetrics(ctx, mentor, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultMetricsPeriodDays, resp.PeriodDays)
	assert.Equal(t, 5, resp.TotalSessions)
	assert.Equal(t, 3, resp.CompletedSessions)
	assert.Equal(t, 1, resp.CancelledSessions)
	assert.Equal(t, 1, resp.NoShowSessions)
	assert.Equal(t, 0, resp.PendingSessions)
	assert.Equal(t, 0.6, resp.CompletionRate)
	assert.Equal(t, 3.0, resp.TotalHours)
	require.NotNil(t, resp.AvgMentorRating)
	assert.Equal(t, 4.5, *resp.AvgMentorRating)
	require.NotNil(t, resp.AvgSessionRating)
	assert.Equal(t, 4.5, *resp.AvgSessionRating)
	assert.Equal(t, 1, resp.RatedSessions)

	assert.Equal(t, 2, resp.UniqueMentees)
	assert.Equal(t, first, resp.Mentees[0].MenteeID)
	assert.Equal(t, 3, resp.Mentees[0].Sessions)
	assert.Equal(t, 2, resp.Mentees[0].CompletedSessions)

	assert.Equal(t, 1, resp.LifetimeCompletedSessions)
	assert.Equal(t, 12.5, resp.LifetimeHours)
}

func TestMentorMetricsWithoutSessions(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newService(env)

	resp, err := svc.MentorMetrics(context.Background(), env.Mentor(), 7)
	require.NoError(t, err)
	assert.Zero(t, resp.TotalSessions)
	assert.Zero(t, resp.CompletionRate)
	assert.Nil(t, resp.AvgMentorRating)
	assert.Empty(t, resp.Mentees)
}

func TestMentorMetricsRejectsPeriod(t *testing.T) {
	env := usecasetest.NewEnv()
	svc := newService(env)

	for _, days := range []int{-1, domain.MaxMetricsPeriodDays + 1} {
		_, err := svc.MentorMetrics(context.Background(), env.Mentor(), days)
		assert.ErrorIs(t, err, domain.ErrValidation, "days=%d", days)
	}
}
