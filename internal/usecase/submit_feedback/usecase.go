package submit_feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/session"
)

// UseCase use case для отзыва участника о сессии
type UseCase struct {
	sessionRepo  SessionRepository
	dispatcher   EffectDispatcher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	dispatcher EffectDispatcher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		dispatcher:   dispatcher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute сохраняет отзыв одной стороны.
// Сохранение и завершение идут отдельными атомарными записями вне общей транзакции:
// завершение, выполненное после второго сохранения, всегда видит оба отзыва,
// а условие feedback_complete = false пропускает его ровно один раз.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitFeedback: session=%s, actor=%s, rating=%d", req.SessionID, req.ActorID, req.Rating)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitFeedback: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().UTC()

	// 2. Сессия и сторона отзыва
	session, err := uc.getSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	side, err := sideOf(session, req.ActorID)
	if err != nil {
		uc.logger.Warn("SubmitFeedback: actor=%s is not a participant of session=%s", req.ActorID, session.ID)
		return nil, err
	}

	// 3. Отзыв принимается только для завершенной сессии и один раз от стороны
	if session.Status != domain.StatusCompleted {
		uc.logger.Warn("SubmitFeedback: session=%s has status %s", session.ID, session.Status)
		return nil, fmt.Errorf("%w: status %s", domain.ErrFeedbackNotAllowed, session.Status)
	}
	if (side == domain.SideMentor && session.MentorFeedbackReceived) ||
		(side == domain.SideMentee && session.MenteeFeedbackReceived) {
		uc.logger.Warn("SubmitFeedback: %s feedback for session=%s already submitted", side, session.ID)
		return nil, domain.ErrFeedbackAlreadySubmitted
	}

	// 4. Сохраняем свою сторону
	if err := uc.save(ctx, session.ID, side, req, now); err != nil {
		return nil, err
	}

	// 5. Пытаемся завершить сбор отзывов
	avg, completed, err := uc.sessionRepo.CompleteFeedback(ctx, session.ID)
	if err != nil {
		uc.logger.Error("SubmitFeedback: failed to complete feedback for session=%s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to complete feedback: %v", ErrInternal, err)
	}

	updated, err := uc.getSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if completed {
		uc.metrics.IncFeedbackCompleted()
		uc.logger.Info("SubmitFeedback: session=%s feedback complete, avgRating=%.2f", session.ID, avg)
	}

	// 6. Побочные эффекты
	uc.dispatcher.Dispatch(ctx, feedbackEffects(updated, side, req.ActorID, completed, avg))

	return &Response{
		Session:          updated,
		Side:             side,
		FeedbackComplete: updated.FeedbackComplete,
		AvgRating:        updated.AvgRating,
	}, nil
}

func (uc *UseCase) getSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	s, err := uc.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("SubmitFeedback: session id=%s not found", id)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("SubmitFeedback: failed to get session id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}
	return s, nil
}

func (uc *UseCase) save(ctx context.Context, id uuid.UUID, side domain.FeedbackSide, req *Request, now time.Time) error {
	var err error
	switch side {
	case domain.SideMentor:
		fb := domain.MentorFeedback{
			Rating:      req.Rating,
			Preparation: req.Preparation,
			Engagement:  req.Engagement,
			Outcome:     req.Outcome,
			NextSteps:   req.NextSteps,
			Comment:     req.Comment,
			SubmittedAt: now,
		}
		if err := fb.Validate(); err != nil {
			uc.logger.Warn("SubmitFeedback: invalid mentor feedback: %v", err)
			return err
		}
		err = uc.sessionRepo.SaveMentorFeedback(ctx, id, fb)
	default:
		fb := domain.MenteeFeedback{
			Rating:         req.Rating,
			Helpfulness:    req.Helpfulness,
			Knowledge:      req.Knowledge,
			WouldRecommend: req.WouldRecommend,
			Comment:        req.Comment,
			SubmittedAt:    now,
		}
		if err := fb.Validate(); err != nil {
			uc.logger.Warn("SubmitFeedback: invalid mentee feedback: %v", err)
			return err
		}
		err = uc.sessionRepo.SaveMenteeFeedback(ctx, id, fb)
	}

	if err != nil {
		if errors.Is(err, sessionRepo.ErrFeedbackAlreadySaved) {
			uc.logger.Warn("SubmitFeedback: %s feedback for session=%s saved concurrently", side, id)
			return domain.ErrFeedbackAlreadySubmitted
		}
		uc.logger.Error("SubmitFeedback: failed to save %s feedback for session=%s: %v", side, id, err)
		return fmt.Errorf("%w: failed to save feedback: %v", ErrInternal, err)
	}
	return nil
}

func sideOf(s *domain.Session, actorID uuid.UUID) (domain.FeedbackSide, error) {
	switch {
	case actorID == uuid.Nil:
		return "", domain.ErrNotParticipant
	case actorID == s.MentorID:
		return domain.SideMentor, nil
	case actorID == s.MenteeID:
		return domain.SideMentee, nil
	}
	return "", domain.ErrNotParticipant
}
