package reschedule_session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	LockParticipants(ctx context.Context, userIDs ...uuid.UUID) error
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	ListActiveForParticipants(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]*domain.Session, error)
	Update(ctx context.Context, session *domain.Session, expected domain.SessionStatus) error
}

// MentorRepository интерфейс репозитория профилей менторов
type MentorRepository interface {
	GetProfile(ctx context.Context, mentorID uuid.UUID) (*domain.MentorProfile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EffectDispatcher исполнитель побочных эффектов
type EffectDispatcher interface {
	Dispatch(ctx context.Context, batch []effects.Effect)
}

// Metrics счетчики переносов
type Metrics interface {
	IncTransition(from, to string)
	IncSessionRejected(kind string)
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
