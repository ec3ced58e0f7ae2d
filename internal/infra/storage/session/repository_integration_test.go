package session_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/storage/pgtest"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/storage/session"
	"github.com/m04kA/SMC-MentorshipService/pkg/txmanager"
)

func newPair(t *testing.T) (uuid.UUID, uuid.UUID) {
	mentorID, menteeID := uuid.New(), uuid.New()
	pgtest.Cleanup(t, mentorID, menteeID)
	return mentorID, menteeID
}

func createSession(t *testing.T, repo *session.Repository, mentorID, menteeID uuid.UUID, at time.Time, status domain.SessionStatus) *domain.Session {
	t.Helper()

	s := &domain.Session{
		ID:                uuid.New(),
		MentorID:          mentorID,
		MenteeID:          menteeID,
		Title:             "Go review",
		ScheduledAt:       at,
		DurationMinutes:   60,
		Status:            status,
		StatusHistory:     []domain.StatusChange{},
		RescheduleHistory: []domain.RescheduleRecord{},
	}
	created, err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	return created
}

// completeAt переводит сессию в COMPLETED с заданным временем завершения
func completeAt(t *testing.T, repo *session.Repository, s *domain.Session, at time.Time) {
	t.Helper()

	previous := s.Status
	s.Status = domain.StatusCompleted
	s.CompletedAt = &at
	require.NoError(t, repo.Update(context.Background(), s, previous))
}

func TestRepositoryUpdateRejectsStaleStatus(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(pgtest.Open(t))
	mentorID, menteeID := newPair(t)

	s := createSession(t, repo, mentorID, menteeID, time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC), domain.StatusScheduled)

	cancelled := *s
	reason := "mentor is ill"
	cancelled.Status = domain.StatusCancelled
	cancelled.CancellationReason = &reason
	require.NoError(t, repo.Update(ctx, &cancelled, domain.StatusScheduled))

	// второй писатель прочитал SCHEDULED до отмены
	stale := *s
	stale.Status = domain.StatusConfirmed
	err := repo.Update(ctx, &stale, domain.StatusScheduled)
	assert.ErrorIs(t, err, session.ErrConcurrentUpdate)

	stored, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, reason, *stored.CancellationReason)
}

func TestRepositoryGetByIDUnknown(t *testing.T) {
	repo := session.NewRepository(pgtest.Open(t))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestRepositoryFeedbackCompletesOnce(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(pgtest.Open(t))
	mentorID, menteeID := newPair(t)

	s := createSession(t, repo, mentorID, menteeID, time.Date(2030, 3, 5, 9, 0, 0, 0, time.UTC), domain.StatusScheduled)
	completeAt(t, repo, s, time.Date(2030, 3, 5, 10, 0, 0, 0, time.UTC))

	submitted := time.Date(2030, 3, 5, 11, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveMentorFeedback(ctx, s.ID, domain.MentorFeedback{Rating: 4, SubmittedAt: submitted}))

	// одного отзыва недостаточно
	_, completed, err := repo.CompleteFeedback(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, completed)

	err = repo.SaveMentorFeedback(ctx, s.ID, domain.MentorFeedback{Rating: 1, SubmittedAt: submitted})
	assert.ErrorIs(t, err, session.ErrFeedbackAlreadySaved)

	require.NoError(t, repo.SaveMenteeFeedback(ctx, s.ID, domain.MenteeFeedback{Rating: 5, WouldRecommend: true, SubmittedAt: submitted}))

	avg, completed, err := repo.CompleteFeedback(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.InDelta(t, 4.5, avg, 1e-9)

	_, completed, err = repo.CompleteFeedback(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, completed)

	stored, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, stored.FeedbackComplete)
	require.NotNil(t, stored.MentorFeedback)
	assert.Equal(t, 4, stored.MentorFeedback.Rating)
	require.NotNil(t, stored.MenteeFeedback)
	assert.True(t, stored.MenteeFeedback.WouldRecommend)
}

func TestRepositoryFeedbackRequiresCompletedSession(t *testing.T) {
	repo := session.NewRepository(pgtest.Open(t))
	mentorID, menteeID := newPair(t)

	s := createSession(t, repo, mentorID, menteeID, time.Date(2030, 3, 6, 9, 0, 0, 0, time.UTC), domain.StatusScheduled)

	err := repo.SaveMenteeFeedback(context.Background(), s.ID, domain.MenteeFeedback{Rating: 5})
	assert.ErrorIs(t, err, session.ErrFeedbackAlreadySaved)
}

func TestRepositoryListPendingFeedbackSkipsCappedAndRecentlyReminded(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(pgtest.Open(t))
	mentorID, menteeID := newPair(t)

	day := func(month time.Month, d int) time.Time { return time.Date(2001, month, d, 12, 0, 0, 0, time.UTC) }

	capped := createSession(t, repo, mentorID, menteeID, day(1, 1), domain.StatusScheduled)
	completeAt(t, repo, capped, day(1, 1))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.MarkFeedbackReminderSent(ctx, capped.ID, day(1, 10)))
	}

	recent := createSession(t, repo, mentorID, menteeID, day(1, 2), domain.StatusScheduled)
	completeAt(t, repo, recent, day(1, 2))
	require.NoError(t, repo.MarkFeedbackReminderSent(ctx, recent.ID, day(5, 31)))

	fresh := createSession(t, repo, mentorID, menteeID, day(1, 3), domain.StatusScheduled)
	completeAt(t, repo, fresh, day(1, 3))

	// слишком свежее завершение
	tooNew := createSession(t, repo, mentorID, menteeID, day(6, 2), domain.StatusScheduled)
	completeAt(t, repo, tooNew, day(6, 2))

	filter := domain.PendingFeedbackFilter{
		CompletedBefore: day(6, 1),
		RemindedBefore:  day(5, 1),
		MaxReminders:    3,
		Limit:           1,
	}
	got, err := repo.ListPendingFeedback(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fresh.ID, got[0].ID)

	filter.MaxReminders = 0
	filter.Limit = 0
	got, err = repo.ListPendingFeedback(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{capped.ID, fresh.ID}, sessionIDs(got))
	assert.Equal(t, 3, got[0].FeedbackRemindersSent)
}

func TestRepositoryListExpired(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(pgtest.Open(t))
	mentorID, menteeID := newPair(t)

	at := func(d int) time.Time { return time.Date(2002, 4, d, 9, 0, 0, 0, time.UTC) }

	second := createSession(t, repo, mentorID, menteeID, at(2), domain.StatusRescheduled)
	first := createSession(t, repo, mentorID, menteeID, at(1), domain.StatusScheduled)
	createSession(t, repo, mentorID, menteeID, at(3), domain.StatusCancelled)
	createSession(t, repo, mentorID, menteeID, time.Date(2002, 6, 1, 9, 0, 0, 0, time.UTC), domain.StatusScheduled)

	statuses := []domain.SessionStatus{domain.StatusScheduled, domain.StatusRescheduled}
	before := time.Date(2002, 5, 1, 0, 0, 0, 0, time.UTC)

	got, err := repo.ListExpired(ctx, statuses, before, 0)
	require.NoError(t, err)
	owned := filterByMentor(got, mentorID)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, sessionIDs(owned))
}

func TestRepositoryCalendarAndReminderRefs(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(pgtest.Open(t))
	mentorID, menteeID := newPair(t)

	s := createSession(t, repo, mentorID, menteeID, time.Date(2030, 3, 7, 9, 0, 0, 0, time.UTC), domain.StatusScheduled)

	require.NoError(t, repo.SetCalendarEvent(ctx, s.ID, domain.CalendarEventRef{EventID: "evt-1", JoinLink: "https://meet.example/abc"}))
	require.NoError(t, repo.SetReminderHandles(ctx, s.ID, []string{"rem-1", "rem-2"}))

	stored, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CalendarEventID)
	assert.Equal(t, "evt-1", *stored.CalendarEventID)
	assert.Equal(t, []string{"rem-1", "rem-2"}, stored.ReminderHandles)

	require.NoError(t, repo.SetReminderHandles(ctx, s.ID, nil))
	stored, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ReminderHandles)
}

func TestRepositoryLockParticipantsRequiresTransaction(t *testing.T) {
	repo := session.NewRepository(pgtest.Open(t))

	err := repo.LockParticipants(context.Background(), uuid.New())
	assert.ErrorIs(t, err, session.ErrTransaction)
}

func TestRepositoryLockParticipantsSerializesTransactions(t *testing.T) {
	db := pgtest.Open(t)
	repo := session.NewRepository(db)
	tm := txmanager.NewTransactionManager(db)
	ctx := context.Background()

	shared := uuid.New()
	locked := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)

	go func() {
		firstDone <- tm.Do(ctx, func(ctx context.Context) error {
			// повторный id не ломает порядок блокировок
			if err := repo.LockParticipants(ctx, shared, uuid.New(), shared); err != nil {
				close(locked)
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	var acquired atomic.Bool
	secondDone := make(chan error, 1)
	go func() {
		secondDone <- tm.Do(ctx, func(ctx context.Context) error {
			if err := repo.LockParticipants(ctx, shared); err != nil {
				return err
			}
			acquired.Store(true)
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, acquired.Load(), "second transaction must wait for the first one")

	close(release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)
	assert.True(t, acquired.Load())
}

func sessionIDs(sessions []*domain.Session) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	return ids
}

func filterByMentor(sessions []*domain.Session, mentorID uuid.UUID) []*domain.Session {
	var out []*domain.Session
	for _, s := range sessions {
		if s.MentorID == mentorID {
			out = append(out, s)
		}
	}
	return out
}
