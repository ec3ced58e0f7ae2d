package reschedule_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	mentorRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/mentor"
	sessionRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/session"
)

// UseCase use case для переноса сессии
type UseCase struct {
	sessionRepo  SessionRepository
	mentorRepo   MentorRepository
	txManager    TransactionManager
	dispatcher   EffectDispatcher
	metrics      Metrics
	rules        domain.SchedulingRules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	mentorRepo MentorRepository,
	txManager TransactionManager,
	dispatcher EffectDispatcher,
	metrics Metrics,
	rules domain.SchedulingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		mentorRepo:   mentorRepo,
		txManager:    txManager,
		dispatcher:   dispatcher,
		metrics:      metrics,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute переносит сессию на новое время.
// Пересечения проверяются без учета самой переносимой сессии.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleSession: session=%s, newStart=%s, actor=%s",
		req.SessionID, req.NewStart.UTC().Format(time.RFC3339), req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleSession: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		session  *domain.Session
		before   *domain.Session
		previous domain.SessionStatus
	)

	// 2. Проверка и перенос в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		s, err := uc.sessionRepo.GetByIDForUpdate(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("RescheduleSession: session id=%s not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("RescheduleSession: failed to get session id=%s: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
		}

		if req.ActorID != uuid.Nil && !s.Involves(req.ActorID) {
			uc.logger.Warn("RescheduleSession: actor=%s is not a participant of session=%s", req.ActorID, s.ID)
			return domain.ErrNotParticipant
		}

		// 2.1. Перенос разрешен только из SCHEDULED и RESCHEDULED
		if !s.CanReschedule() {
			uc.logger.Warn("RescheduleSession: session=%s has status %s", s.ID, s.Status)
			return fmt.Errorf("%w: status %s", domain.ErrRescheduleNotAllowed, s.Status)
		}

		// 2.2. Минимальный срок записи действует и для нового времени
		if err := uc.rules.ValidateNotice(req.NewStart, now); err != nil {
			uc.logger.Warn("RescheduleSession: new start violates advance notice")
			return err
		}

		profile, err := uc.loadProfile(txCtx, s.MentorID)
		if err != nil {
			return err
		}

		// 2.3. Пересечения и лимиты без учета самой сессии
		if err := uc.sessionRepo.LockParticipants(txCtx, s.MentorID, s.MenteeID); err != nil {
			uc.logger.Error("RescheduleSession: failed to lock participants: %v", err)
			return fmt.Errorf("%w: failed to lock participants: %v", ErrInternal, err)
		}

		candidate := domain.NewInterval(req.NewStart.UTC(), s.DurationMinutes)
		from, to := domain.AllocationWindow(profile, candidate)
		existing, err := uc.sessionRepo.ListActiveForParticipants(txCtx, s.Participants(), from, to)
		if err != nil {
			uc.logger.Error("RescheduleSession: failed to list sessions: %v", err)
			return fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
		}
		if err := domain.CheckAllocation(profile, candidate, s.MenteeID, existing, &s.ID); err != nil {
			uc.logger.Warn("RescheduleSession: slot %s rejected: %v", candidate.Start.Format(time.RFC3339), err)
			return err
		}

		// 2.4. Переносим и сохраняем с проверкой прежнего статуса
		before = s.Clone()
		previous = s.Status
		if err := s.Reschedule(req.NewStart, req.Reason, req.ActorID, now); err != nil {
			return err
		}
		if err := uc.sessionRepo.Update(txCtx, s, previous); err != nil {
			if errors.Is(err, sessionRepo.ErrConcurrentUpdate) {
				uc.logger.Warn("RescheduleSession: session=%s changed concurrently", s.ID)
				return ErrConcurrentModification
			}
			uc.logger.Error("RescheduleSession: failed to update session=%s: %v", s.ID, err)
			return fmt.Errorf("%w: failed to update session: %v", ErrInternal, err)
		}

		session = s
		return nil
	})
	if err != nil {
		uc.metrics.IncSessionRejected(domain.KindLabel(err))
		return nil, err
	}

	if previous != session.Status {
		uc.metrics.IncTransition(previous.String(), session.Status.String())
	}
	uc.logger.Info("RescheduleSession: session=%s moved %s -> %s", session.ID,
		before.ScheduledAt.Format(time.RFC3339), session.ScheduledAt.Format(time.RFC3339))

	// 3. Синхронизация календаря и напоминаний после коммита
	uc.dispatcher.Dispatch(ctx, rescheduledEffects(before, session, req))

	return &Response{Session: session, PreviousTime: before.ScheduledAt}, nil
}

func (uc *UseCase) loadProfile(ctx context.Context, mentorID uuid.UUID) (*domain.MentorProfile, error) {
	profile, err := uc.mentorRepo.GetProfile(ctx, mentorID)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, mentorRepo.ErrProfileNotFound) {
		return domain.DefaultMentorProfile(mentorID), nil
	}
	uc.logger.Error("RescheduleSession: failed to get mentor profile: %v", err)
	return nil, fmt.Errorf("%w: failed to get mentor profile: %v", ErrInternal, err)
}
