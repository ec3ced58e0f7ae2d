// Package reminders планировщик напоминаний в памяти процесса на таймерах.
// Напоминания не переживают перезапуск.
package reminders

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

var (
	ErrSchedulerClosed = errors.New("reminders: scheduler is closed")
	ErrNoRecipients    = errors.New("reminders: payload has no recipients")
)

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// SessionSource текущее состояние сессии перед отправкой напоминания
type SessionSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type Scheduler struct {
	notifier     Notifier
	sessions     SessionSource // nil: напоминание отправляется без проверки
	timeout      time.Duration
	timeProvider TimeProvider
	logger       Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewScheduler timeout ограничивает одну отправку
func NewScheduler(notifier Notifier, timeout time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		notifier:     notifier,
		timeout:      timeout,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		timers:       make(map[string]*time.Timer),
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (s *Scheduler) SetTimeProvider(tp TimeProvider) {
	s.timeProvider = tp
}

// SetSessionSource включает проверку сессии при срабатывании
func (s *Scheduler) SetSessionSource(src SessionSource) {
	s.sessions = src
}

// ScheduleAt ставит напоминание на at и возвращает handle.
// Время в прошлом срабатывает сразу.
func (s *Scheduler) ScheduleAt(_ context.Context, at time.Time, payload domain.ReminderPayload) (string, error) {
	if len(payload.Recipients) == 0 {
		return "", ErrNoRecipients
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrSchedulerClosed
	}

	handle := uuid.NewString()
	delay := at.Sub(s.timeProvider.Now())
	s.timers[handle] = time.AfterFunc(delay, func() { s.fire(handle, payload) })

	s.logger.Info("ScheduleAt: reminder=%s for session=%s at %s", handle, payload.SessionID, at.UTC().Format(time.RFC3339))
	return handle, nil
}

// Cancel снимает напоминание. Неизвестный или уже сработавший handle не ошибка.
func (s *Scheduler) Cancel(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[handle]
	if !ok {
		return nil
	}
	timer.Stop()
	delete(s.timers, handle)
	s.logger.Info("Cancel: reminder=%s cancelled", handle)
	return nil
}

// Pending число ожидающих напоминаний
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close останавливает все таймеры
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for handle, timer := range s.timers {
		timer.Stop()
		delete(s.timers, handle)
	}
	s.closed = true
}

func (s *Scheduler) fire(handle string, payload domain.ReminderPayload) {
	s.mu.Lock()
	if _, ok := s.timers[handle]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.timers, handle)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if !s.stillDue(ctx, handle, payload) {
		return
	}

	for _, recipient := range payload.Recipients {
		err := s.notifier.Notify(ctx, domain.Notification{
			UserID:  recipient,
			Type:    domain.NotificationSessionReminder,
			Title:   payload.Title,
			Message: payload.Message,
			Data: map[string]interface{}{
				"sessionId": payload.SessionID.String(),
				"startsAt":  payload.StartsAt.UTC().Format(time.RFC3339),
				"reminder":  handle,
			},
		})
		if err != nil {
			s.logger.Error("fire: reminder=%s, failed to notify user=%s: %v", handle, recipient, err)
		}
	}
}

// stillDue сессия активна и не перенесена с момента постановки напоминания
func (s *Scheduler) stillDue(ctx context.Context, handle string, payload domain.ReminderPayload) bool {
	if s.sessions == nil {
		return true
	}
	session, err := s.sessions.GetByID(ctx, payload.SessionID)
	if err != nil {
		s.logger.Warn("fire: reminder=%s, failed to read session=%s: %v", handle, payload.SessionID, err)
		return false
	}
	if !session.Status.IsActive() {
		s.logger.Info("fire: reminder=%s dropped, session=%s is %s", handle, session.ID, session.Status)
		return false
	}
	if !session.ScheduledAt.Equal(payload.StartsAt) {
		s.logger.Info("fire: reminder=%s dropped, session=%s moved to %s", handle, session.ID, session.ScheduledAt.UTC().Format(time.RFC3339))
		return false
	}
	return true
}
