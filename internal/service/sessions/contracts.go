package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	ListByUser(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error)
	ListByMentor(ctx context.Context, mentorID uuid.UUID, from, to time.Time) ([]*domain.Session, error)
}

// StatsRepository интерфейс накопленных показателей участника
type StatsRepository interface {
	GetStats(ctx context.Context, userID uuid.UUID) (*domain.ParticipantStats, error)
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
