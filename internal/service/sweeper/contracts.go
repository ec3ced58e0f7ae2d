package sweeper

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	ListExpired(ctx context.Context, statuses []domain.SessionStatus, before time.Time, limit int) ([]*domain.Session, error)
	ListPendingFeedback(ctx context.Context, filter domain.PendingFeedbackFilter) ([]*domain.Session, error)
	Update(ctx context.Context, session *domain.Session, expected domain.SessionStatus) error
	MarkFeedbackReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

// EffectDispatcher исполнитель побочных эффектов
type EffectDispatcher interface {
	Dispatch(ctx context.Context, batch []effects.Effect)
}

// Metrics счетчики фоновых задач
type Metrics interface {
	IncSweepItem(sweep, result string)
	IncTransition(from, to string)
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
