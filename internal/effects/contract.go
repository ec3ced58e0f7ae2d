package effects

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// CalendarClient внешний календарь
type CalendarClient interface {
	CreateEvent(ctx context.Context, event domain.CalendarEvent) (*domain.CalendarEventRef, error)
	UpdateEvent(ctx context.Context, eventID string, update domain.CalendarEventUpdate) error
	CancelEvent(ctx context.Context, eventID string) error
}

// Notifier доставка уведомлений
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// ReminderScheduler отложенные напоминания
type ReminderScheduler interface {
	ScheduleAt(ctx context.Context, at time.Time, payload domain.ReminderPayload) (string, error)
	Cancel(ctx context.Context, handle string) error
}

// AuditLog журнал аудита, только запись
type AuditLog interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}

// SessionRefs чтение сессии и сохранение ссылок, полученных от внешних систем
type SessionRefs interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	SetCalendarEvent(ctx context.Context, sessionID uuid.UUID, ref domain.CalendarEventRef) error
	SetReminderHandles(ctx context.Context, sessionID uuid.UUID, handles []string) error
}

// TimeProvider интерфейс для получения текущего времени
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
