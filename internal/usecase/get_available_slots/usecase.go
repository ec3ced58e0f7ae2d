package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	mentorRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/mentor"
)

// UseCase use case для получения свободных слотов ментора
type UseCase struct {
	sessionRepo  SessionRepository
	mentorRepo   MentorRepository
	rules        domain.SchedulingRules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	mentorRepo MentorRepository,
	rules domain.SchedulingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		mentorRepo:   mentorRepo,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case получения слотов. Только чтение, без побочных эффектов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: mentor=%s, start=%s, end=%s, duration=%d",
		req.MentorID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.rules.MaxSlotRangeDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Профиль доступности ментора
	profile, err := uc.mentorRepo.GetProfile(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, mentorRepo.ErrProfileNotFound) {
			uc.logger.Warn("GetAvailableSlots: mentor id=%s has no availability", req.MentorID)
			return nil, ErrMentorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get profile for mentor id=%s: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: failed to get profile: %v", ErrInternal, err)
	}

	// 4. Длительность
	duration := profile.DurationOrDefault(req.DurationMinutes, uc.rules)
	if err := uc.rules.ValidateDuration(duration); err != nil {
		uc.logger.Warn("GetAvailableSlots: duration %d out of bounds", duration)
		return nil, err
	}

	// 5. Даты запроса трактуются как календарные дни в поясе ментора
	loc := profile.Location()
	from := calendarDay(req.StartDate, loc)
	to := calendarDay(req.EndDate, loc)

	// 6. Активные сессии ментора за полные недели диапазона (для недельного лимита)
	weekStart, _ := domain.WeekBounds(from, loc)
	_, weekEnd := domain.WeekBounds(to, loc)
	sessions, err := uc.sessionRepo.ListActiveForParticipants(ctx, []uuid.UUID{req.MentorID}, weekStart, weekEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list sessions for mentor id=%s: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	// 7. Генерация
	slots := domain.GenerateSlots(domain.SlotQuery{
		Profile:         profile,
		From:            from,
		To:              to,
		DurationMinutes: duration,
		Step:            uc.rules.SlotStep,
		Earliest:        now.Add(uc.rules.MinAdvanceNotice),
		Sessions:        sessions,
	})

	uc.logger.Info("GetAvailableSlots: successfully generated %d slots for mentor=%s", len(slots), req.MentorID)

	return &Response{
		MentorID:        req.MentorID,
		Timezone:        loc.String(),
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}
