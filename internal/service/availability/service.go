package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	mentorRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/mentor"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability/models"
)

// Service расписание менторов и связи ментор-менти
type Service struct {
	mentorRepo       MentorRepository
	relationshipRepo RelationshipRepository
	users            UserDirectory
	dispatcher       EffectDispatcher
	rules            domain.SchedulingRules
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	mentorRepo MentorRepository,
	relationshipRepo RelationshipRepository,
	users UserDirectory,
	dispatcher EffectDispatcher,
	rules domain.SchedulingRules,
	logger Logger,
) *Service {
	return &Service{
		mentorRepo:       mentorRepo,
		relationshipRepo: relationshipRepo,
		users:            users,
		dispatcher:       dispatcher,
		rules:            rules,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (s *Service) SetTimeProvider(tp TimeProvider) {
	s.timeProvider = tp
}

// GetAvailability текущая версия расписания ментора
func (s *Service) GetAvailability(ctx context.Context, mentorID uuid.UUID) (*models.AvailabilityResponse, error) {
	s.logger.Info("GetAvailability: mentor=%s", mentorID)

	profile, err := s.mentorRepo.GetProfile(ctx, mentorID)
	if err != nil {
		if errors.Is(err, mentorRepo.ErrProfileNotFound) {
			s.logger.Warn("GetAvailability: profile for mentor=%s not found", mentorID)
			return nil, ErrProfileNotFound
		}
		s.logger.Error("GetAvailability: repository error for mentor=%s: %v", mentorID, err)
		return nil, fmt.Errorf("%w: GetAvailability - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfile(profile), nil
}

// UpdateAvailability сохраняет новую версию расписания.
// Менять расписание может только сам ментор; устаревшая версия отклоняется.
func (s *Service) UpdateAvailability(ctx context.Context, req *models.UpdateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("UpdateAvailability: mentor=%s, actor=%s, version=%d", req.MentorID, req.ActorID, req.Version)

	// 1. Права доступа
	if req.ActorID != req.MentorID {
		s.logger.Warn("UpdateAvailability: user=%s cannot edit availability of mentor=%s", req.ActorID, req.MentorID)
		return nil, ErrAccessDenied
	}

	// 2. Валидация расписания
	profile := req.ToDomainProfile()
	if err := profile.Validate(s.rules); err != nil {
		s.logger.Warn("UpdateAvailability: validation failed for mentor=%s: %v", req.MentorID, err)
		return nil, err
	}

	// 3. Пользователь должен иметь право быть ментором
	if err := s.checkMentor(ctx, req.MentorID); err != nil {
		return nil, err
	}

	// 4. Сохраняем с проверкой версии
	saved, err := s.mentorRepo.SaveProfile(ctx, profile)
	if err != nil {
		if errors.Is(err, mentorRepo.ErrVersionConflict) {
			s.logger.Warn("UpdateAvailability: version %d of mentor=%s is stale", req.Version, req.MentorID)
			return nil, ErrVersionConflict
		}
		s.logger.Error("UpdateAvailability: failed to save profile of mentor=%s: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: UpdateAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateAvailability: mentor=%s saved version=%d", saved.MentorID, saved.Version)

	// 5. Аудит
	s.dispatcher.Dispatch(ctx, []effects.Effect{effects.RecordAudit{Entry: domain.AuditEntry{
		UserID:      req.ActorID,
		Action:      domain.AuditAvailabilityUpdated,
		Description: fmt.Sprintf("availability updated to version %d", saved.Version),
		Metadata: map[string]interface{}{
			"mentor_id":             saved.MentorID.String(),
			"version":               saved.Version,
			"timezone":              saved.Timezone,
			"max_sessions_per_day":  saved.MaxSessionsPerDay,
			"max_sessions_per_week": saved.MaxSessionsPerWeek,
			"blocked_dates":         len(saved.BlockedDates),
		},
	}}})

	return models.FromDomainProfile(saved), nil
}

func (s *Service) checkMentor(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			s.logger.Warn("checkMentor: user=%s not found", userID)
			return ErrUserNotFound
		}
		s.logger.Error("checkMentor: failed to get user=%s: %v", userID, err)
		return fmt.Errorf("%w: checkMentor - user service error: %v", ErrInternal, err)
	}
	if !user.CanMentor() {
		s.logger.Warn("checkMentor: user=%s with role=%s cannot mentor", userID, user.Role)
		return ErrNotMentor
	}
	return nil
}
