package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
)

// MentorRepository интерфейс репозитория профилей менторов
type MentorRepository interface {
	GetProfile(ctx context.Context, mentorID uuid.UUID) (*domain.MentorProfile, error)
	SaveProfile(ctx context.Context, profile *domain.MentorProfile) (*domain.MentorProfile, error)
}

// RelationshipRepository интерфейс репозитория связей ментор-менти
type RelationshipRepository interface {
	Create(ctx context.Context, rel *domain.Relationship) (*domain.Relationship, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Relationship, error)
	UpdateStatus(ctx context.Context, rel *domain.Relationship, expected domain.RelationshipStatus) error
}

// UserDirectory интерфейс каталога пользователей
type UserDirectory interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*userservice.User, error)
}

// EffectDispatcher исполнитель побочных эффектов
type EffectDispatcher interface {
	Dispatch(ctx context.Context, batch []effects.Effect)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
