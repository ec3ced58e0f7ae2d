package submit_feedback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/usecasetest"
)

func newUseCase(env *usecasetest.Env) *UseCase {
	uc := NewUseCase(env.Store.Sessions(), env.Dispatcher, env.Metrics, env.Logger)
	uc.SetTimeProvider(env.Clock)
	return uc
}

func completedSession(t *testing.T, env *usecasetest.Env) *domain.Session {
	return env.Session(t, env.Mentor(), env.Mentee(), usecasetest.Now.Add(-48 * time.Hour), domain.StatusCompleted)
}

func mentorRequest(s *domain.Session) *Request {
	return &Request{SessionID: s.ID, ActorID: s.MentorID, Rating: 4, Preparation: 5, Engagement: 3, Outcome: domain.OutcomeProgress}
}

func menteeRequest(s *domain.Session) *Request {
	return &Request{SessionID: s.ID, ActorID: s.MenteeID, Rating: 5, Helpfulness: 2, WouldRecommend: true}
}

func TestSubmitFeedbackBothSides(t *testing.T) {
	for _, mentorFirst := range []bool{true, false} {
		env := usecasetest.NewEnv()
		uc := newUseCase(env)
		s := completedSession(t, env)

		first, second := mentorRequest(s), menteeRequest(s)
		if !mentorFirst {
			first, second = second, first
		}

		resp, err := uc.Execute(context.Background(), first)
		require.NoError(t, err)
		assert.False(t, resp.FeedbackComplete)
		assert.Nil(t, resp.AvgRating)

		resp, err = uc.Execute(context.Background(), second)
		require.NoError(t, err)
		env.Dispatcher.Wait()

		assert.True(t, resp.FeedbackComplete)
		require.NotNil(t, resp.AvgRating)
		assert.InDelta(t, 4.5, *resp.AvgRating, 0.0001)
		assert.Len(t, env.Notifier.OfType(domain.NotificationFeedbackComplete), 2)

		stored := env.Get(t, s.ID)
		require.NotNil(t, stored.MentorFeedback)
		assert.Equal(t, 5, stored.MentorFeedback.Preparation)
		require.NotNil(t, stored.MenteeFeedback)
		assert.True(t, stored.MenteeFeedback.WouldRecommend)
	}
}

func TestSubmitFeedbackConcurrentCompletesOnce(t *testing.T) {
	for i := 0; i < 20; i++ {
		env := usecasetest.NewEnv()
		uc := newUseCase(env)
		s := completedSession(t, env)

		var wg sync.WaitGroup
		for _, req := range []*Request{mentorRequest(s), menteeRequest(s)} {
			wg.Add(1)
			go func(req *Request) {
				defer wg.Done()
				_, err := uc.Execute(context.Background(), req)
				assert.NoError(t, err)
			}(req)
		}
		wg.Wait()
		env.Dispatcher.Wait()

		stored := env.Get(t, s.ID)
		assert.True(t, stored.FeedbackComplete)
		require.NotNil(t, stored.AvgRating)
		assert.InDelta(t, 4.5, *stored.AvgRating, 0.0001)
		assert.Len(t, env.Notifier.OfType(domain.NotificationFeedbackComplete), 2)
	}
}

func TestSubmitFeedbackRules(t *testing.T) {
	env := usecasetest.NewEnv()
	uc := newUseCase(env)
	s := completedSession(t, env)

	_, err := uc.Execute(context.Background(), mentorRequest(s))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), mentorRequest(s))
	assert.ErrorIs(t, err, domain.ErrFeedbackAlreadySubmitted)

	stranger := mentorRequest(s)
	stranger.ActorID = uuid.New()
	_, err = uc.Execute(context.Background(), stranger)
	assert.ErrorIs(t, err, domain.ErrNotParticipant)

	bad := menteeRequest(s)
	bad.Rating = 7
	_, err = uc.Execute(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	scheduled := env.Session(t, env.Mentor(), env.Mentee(), usecasetest.At(9, 0), domain.StatusScheduled)
	_, err = uc.Execute(context.Background(), mentorRequest(scheduled))
	assert.ErrorIs(t, err, domain.ErrFeedbackNotAllowed)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)

	_, err = uc.Execute(context.Background(), &Request{SessionID: uuid.New(), ActorID: s.MentorID, Rating: 3})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
