package update_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/session"
)

// UseCase use case для смены статуса сессии
type UseCase struct {
	sessionRepo  SessionRepository
	statsRepo    StatsRepository
	txManager    TransactionManager
	dispatcher   EffectDispatcher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	statsRepo StatsRepository,
	txManager TransactionManager,
	dispatcher EffectDispatcher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		statsRepo:    statsRepo,
		txManager:    txManager,
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

// Execute применяет ручной переход статуса.
// Запись идет с проверкой прежнего статуса, поэтому один и тот же переход фиксируется не более одного раза.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateStatus: session=%s, status=%s, actor=%s", req.SessionID, req.Status, req.ActorID)

	// 1. Валидация входных данных
	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateStatus: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		session  *domain.Session
		previous domain.SessionStatus
	)

	// 2. Переход и его последствия в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		s, err := uc.sessionRepo.GetByIDForUpdate(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("UpdateStatus: session id=%s not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("UpdateStatus: failed to get session id=%s: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
		}

		if req.ActorID != uuid.Nil && !s.Involves(req.ActorID) {
			uc.logger.Warn("UpdateStatus: actor=%s is not a participant of session=%s", req.ActorID, s.ID)
			return domain.ErrNotParticipant
		}

		// 2.1. Проверка по таблице переходов
		previous = s.Status
		if err := s.ApplyTransition(domain.Transition{
			To:     target,
			Actor:  req.ActorID,
			Notes:  req.Notes,
			Reason: req.Reason,
			At:     now,
		}); err != nil {
			uc.logger.Warn("UpdateStatus: session=%s: %v", s.ID, err)
			return err
		}

		// 2.2. Сохраняем, только если статус не изменился с момента чтения
		if err := uc.sessionRepo.Update(txCtx, s, previous); err != nil {
			if errors.Is(err, sessionRepo.ErrConcurrentUpdate) {
				uc.logger.Warn("UpdateStatus: session=%s changed concurrently", s.ID)
				return ErrConcurrentModification
			}
			uc.logger.Error("UpdateStatus: failed to update session=%s: %v", s.ID, err)
			return fmt.Errorf("%w: failed to update session: %v", ErrInternal, err)
		}

		// 2.3. Завершение учитывается в статистике обоих участников
		if s.Status == domain.StatusCompleted {
			if err := uc.recordCompletion(txCtx, s); err != nil {
				return err
			}
		}

		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncTransition(previous.String(), session.Status.String())
	uc.logger.Info("UpdateStatus: session=%s %s -> %s", session.ID, previous, session.Status)

	// 3. Побочные эффекты после коммита
	uc.dispatcher.Dispatch(ctx, transitionEffects(session, previous, req.ActorID))

	return &Response{Session: session, PreviousStatus: previous}, nil
}

func (uc *UseCase) recordCompletion(ctx context.Context, s *domain.Session) error {
	hours := 0.0
	if s.ActualDurationMinutes != nil {
		hours = float64(*s.ActualDurationMinutes) / 60
	}
	for _, userID := range s.Participants() {
		if err := uc.statsRepo.IncrementCompleted(ctx, userID, hours); err != nil {
			uc.logger.Error("UpdateStatus: failed to increment stats for user=%s: %v", userID, err)
			return fmt.Errorf("%w: failed to increment stats: %v", ErrInternal, err)
		}
	}
	return nil
}
