package create_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
	mentorRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/mentor"
	relationshipRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/relationship"
	"github.com/m04kA/SMC-MentorshipService/pkg/ptr"
)

const (
	sourceDirect     = "direct"
	sourceRecurrence = "recurrence"
)

// UseCase use case для создания сессии
type UseCase struct {
	sessionRepo      SessionRepository
	mentorRepo       MentorRepository
	relationshipRepo RelationshipRepository
	users            UserDirectory
	txManager        TransactionManager
	dispatcher       EffectDispatcher
	metrics          Metrics
	rules            domain.SchedulingRules
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	mentorRepo MentorRepository,
	relationshipRepo RelationshipRepository,
	users UserDirectory,
	txManager TransactionManager,
	dispatcher EffectDispatcher,
	metrics Metrics,
	rules domain.SchedulingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:      sessionRepo,
		mentorRepo:       mentorRepo,
		relationshipRepo: relationshipRepo,
		users:            users,
		txManager:        txManager,
		dispatcher:       dispatcher,
		metrics:          metrics,
		rules:            rules,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case создания сессии.
// Проверка пересечений и вставка выполняются в сериализуемой транзакции под advisory-блокировками участников.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSession: mentor=%s, mentee=%s, at=%s, duration=%d",
		req.MentorID, req.MenteeID, req.ScheduledAt.UTC().Format(time.RFC3339), req.DurationMinutes)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.IncSessionRejected(domain.KindLabel(err))
		return nil, err
	}
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSession: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем участников
	if err := uc.resolveParticipants(ctx, req); err != nil {
		return nil, err
	}

	var (
		created *domain.Session
		profile *domain.MentorProfile
	)

	// 4. Проверка и вставка в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Связь ментор-менти
		relationshipID, err := uc.checkRelationship(txCtx, req)
		if err != nil {
			return err
		}

		// 4.2. Профиль ментора, без профиля действуют значения по умолчанию
		profile, err = uc.loadProfile(txCtx, req.MentorID)
		if err != nil {
			return err
		}

		// 4.3. Длительность и минимальный срок записи
		duration := profile.DurationOrDefault(req.DurationMinutes, uc.rules)
		if err := uc.rules.ValidateDuration(duration); err != nil {
			uc.logger.Warn("CreateSession: duration %d out of [%d, %d]", duration, uc.rules.MinDurationMinutes, uc.rules.MaxDurationMinutes)
			return err
		}
		if err := uc.rules.ValidateNotice(req.ScheduledAt, now); err != nil {
			uc.logger.Warn("CreateSession: start %s violates advance notice", req.ScheduledAt.UTC().Format(time.RFC3339))
			return err
		}

		session := newSession(req, relationshipID, duration)

		// 4.4. Блокируем участников, проверяем пересечения и лимиты, сохраняем
		created, err = uc.allocate(txCtx, profile, session)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncSessionCreated(sourceDirect)
	uc.logger.Info("CreateSession: successfully created session id=%s", created.ID)

	// 5. Побочные эффекты после коммита
	uc.dispatcher.Dispatch(ctx, createdEffects(created, req.ActorID))

	resp := &Response{Session: created}

	// 6. Серия: каждая встреча в своей транзакции, неудачные даты пропускаются
	if req.Recurrence != nil {
		resp.Occurrences, resp.Skipped = uc.expandRecurrence(ctx, created, profile, req)
	}

	return resp, nil
}

func (uc *UseCase) resolveParticipants(ctx context.Context, req *Request) error {
	mentor, err := uc.users.GetUser(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			uc.logger.Warn("CreateSession: mentor id=%s not found", req.MentorID)
			return ErrMentorNotFound
		}
		uc.logger.Error("CreateSession: failed to get mentor id=%s: %v", req.MentorID, err)
		return fmt.Errorf("%w: failed to get mentor: %v", ErrInternal, err)
	}
	if !mentor.CanMentor() {
		uc.logger.Warn("CreateSession: user id=%s has role %s", req.MentorID, mentor.Role)
		return ErrNotMentor
	}

	if _, err := uc.users.GetUser(ctx, req.MenteeID); err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			uc.logger.Warn("CreateSession: mentee id=%s not found", req.MenteeID)
			return ErrMenteeNotFound
		}
		uc.logger.Error("CreateSession: failed to get mentee id=%s: %v", req.MenteeID, err)
		return fmt.Errorf("%w: failed to get mentee: %v", ErrInternal, err)
	}
	return nil
}

// checkRelationship активная связь пары, если правила ее требуют
func (uc *UseCase) checkRelationship(ctx context.Context, req *Request) (*uuid.UUID, error) {
	if !uc.rules.RequireActiveRelationship {
		return req.RelationshipID, nil
	}

	rel, err := uc.relationshipRepo.FindActive(ctx, req.MentorID, req.MenteeID)
	if err != nil {
		if errors.Is(err, relationshipRepo.ErrRelationshipNotFound) {
			uc.logger.Warn("CreateSession: no active relationship mentor=%s mentee=%s", req.MentorID, req.MenteeID)
			return nil, ErrMenteeNotAssigned
		}
		uc.logger.Error("CreateSession: failed to get relationship: %v", err)
		return nil, fmt.Errorf("%w: failed to get relationship: %v", ErrInternal, err)
	}
	if req.RelationshipID != nil && *req.RelationshipID != rel.ID {
		uc.logger.Warn("CreateSession: relationship id=%s is not the active one", *req.RelationshipID)
		return nil, ErrMenteeNotAssigned
	}
	return ptr.Ptr(rel.ID), nil
}

func (uc *UseCase) loadProfile(ctx context.Context, mentorID uuid.UUID) (*domain.MentorProfile, error) {
	profile, err := uc.mentorRepo.GetProfile(ctx, mentorID)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, mentorRepo.ErrProfileNotFound) {
		uc.logger.Info("CreateSession: using default profile for mentor=%s", mentorID)
		return domain.DefaultMentorProfile(mentorID), nil
	}
	uc.logger.Error("CreateSession: failed to get mentor profile: %v", err)
	return nil, fmt.Errorf("%w: failed to get mentor profile: %v", ErrInternal, err)
}

// allocate должна вызываться внутри транзакции
func (uc *UseCase) allocate(ctx context.Context, profile *domain.MentorProfile, session *domain.Session) (*domain.Session, error) {
	if err := uc.sessionRepo.LockParticipants(ctx, session.MentorID, session.MenteeID); err != nil {
		uc.logger.Error("CreateSession: failed to lock participants: %v", err)
		return nil, fmt.Errorf("%w: failed to lock participants: %v", ErrInternal, err)
	}

	candidate := session.Interval()
	from, to := domain.AllocationWindow(profile, candidate)
	existing, err := uc.sessionRepo.ListActiveForParticipants(ctx, session.Participants(), from, to)
	if err != nil {
		uc.logger.Error("CreateSession: failed to list sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	if err := domain.CheckAllocation(profile, candidate, session.MenteeID, existing, nil); err != nil {
		uc.logger.Warn("CreateSession: slot %s rejected: %v", candidate.Start.Format(time.RFC3339), err)
		return nil, err
	}

	created, err := uc.sessionRepo.Create(ctx, session)
	if err != nil {
		uc.logger.Error("CreateSession: failed to create session: %v", err)
		return nil, fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
	}
	return created, nil
}

func newSession(req *Request, relationshipID *uuid.UUID, duration int) *domain.Session {
	return &domain.Session{
		ID:              uuid.New(),
		MentorID:        req.MentorID,
		MenteeID:        req.MenteeID,
		RelationshipID:  relationshipID,
		Title:           req.Title,
		Description:     req.Description,
		Agenda:          req.Agenda,
		Objectives:      append([]string(nil), req.Objectives...),
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Status:          domain.StatusScheduled,
	}
}
