package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	ListActiveForParticipants(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]*domain.Session, error)
}

// MentorRepository интерфейс репозитория профилей менторов
type MentorRepository interface {
	GetProfile(ctx context.Context, mentorID uuid.UUID) (*domain.MentorProfile, error)
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

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
