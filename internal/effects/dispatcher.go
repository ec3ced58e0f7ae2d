package effects

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/pkg/metrics"
)

// DefaultEffectTimeout ограничение времени одного эффекта
const DefaultEffectTimeout = 10 * time.Second

// Collaborators внешние системы; nil означает, что эффект пропускается
type Collaborators struct {
	Calendar  CalendarClient
	Notifier  Notifier
	Reminders ReminderScheduler
	Audit     AuditLog
	Refs      SessionRefs
}

// Dispatcher выполняет пачки эффектов в фоне. Эффекты пачки выполняются по порядку,
// ошибка одного логируется и не мешает следующим. Пачки одной сессии выполняются
// в порядке вызова Dispatch.
type Dispatcher struct {
	collaborators Collaborators
	timeout       time.Duration
	metrics       *metrics.Metrics
	timeProvider  TimeProvider
	logger        Logger
	wg            sync.WaitGroup

	mu    sync.Mutex
	tails map[uuid.UUID]chan struct{} // последняя пачка каждой сессии
}

func NewDispatcher(c Collaborators, timeout time.Duration, m *metrics.Metrics, logger Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultEffectTimeout
	}
	return &Dispatcher{
		collaborators: c,
		timeout:       timeout,
		metrics:       m,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		tails:         make(map[uuid.UUID]chan struct{}),
	}
}

// SetTimeProvider подменяет часы (для тестов)
func (d *Dispatcher) SetTimeProvider(tp TimeProvider) {
	d.timeProvider = tp
}

// Dispatch запускает пачку и сразу возвращается. Отмена ctx вызывающего не прерывает эффекты.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []Effect) {
	if len(batch) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)
	keys := sessionsOf(batch)

	// Встаем в очередь каждой затронутой сессии
	done := make(chan struct{})
	d.mu.Lock()
	previous := make([]chan struct{}, 0, len(keys))
	for _, key := range keys {
		if tail, ok := d.tails[key]; ok {
			previous = append(previous, tail)
		}
		d.tails[key] = done
	}
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.release(keys, done)

		for _, tail := range previous {
			<-tail
		}
		for _, effect := range batch {
			d.run(base, effect)
		}
	}()
}

func (d *Dispatcher) release(keys []uuid.UUID, done chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	close(done)
	for _, key := range keys {
		if d.tails[key] == done {
			delete(d.tails, key)
		}
	}
}

// Wait ждет завершения всех запущенных пачек
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, effect Effect) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.safeApply(ctx, effect)
	switch {
	case errors.Is(err, errSkipped):
		d.metrics.IncSideEffect(effect.Name(), "skipped")
	case err != nil:
		d.metrics.IncSideEffect(effect.Name(), "failed")
		d.logger.Warn("Dispatcher: effect %s failed: %v", effect.Name(), err)
	default:
		d.metrics.IncSideEffect(effect.Name(), "ok")
	}
}

func (d *Dispatcher) safeApply(ctx context.Context, effect Effect) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return d.apply(ctx, effect)
}

func (d *Dispatcher) apply(ctx context.Context, effect Effect) error {
	c := d.collaborators

	switch e := effect.(type) {
	case CreateCalendarEvent:
		if c.Calendar == nil {
			return errSkipped
		}
		return d.createCalendarEvent(ctx, e)

	case UpdateCalendarEvent:
		if c.Calendar == nil {
			return errSkipped
		}
		eventID := d.currentEventID(ctx, e.SessionID, e.EventID)
		if eventID == "" {
			return errSkipped
		}
		return c.Calendar.UpdateEvent(ctx, eventID, e.Update)

	case CancelCalendarEvent:
		if c.Calendar == nil {
			return errSkipped
		}
		eventID := d.currentEventID(ctx, e.SessionID, e.EventID)
		if eventID == "" {
			return errSkipped
		}
		return c.Calendar.CancelEvent(ctx, eventID)

	case Notify:
		if c.Notifier == nil {
			return errSkipped
		}
		return c.Notifier.Notify(ctx, e.Notification)

	case ScheduleReminders:
		if c.Reminders == nil {
			return errSkipped
		}
		return d.scheduleReminders(ctx, e)

	case CancelReminders:
		if c.Reminders == nil {
			return errSkipped
		}
		return d.cancelReminders(ctx, e)

	case RecordAudit:
		if c.Audit == nil {
			return errSkipped
		}
		return c.Audit.Record(ctx, e.Entry)
	}

	return fmt.Errorf("unknown effect %T", effect)
}

func (d *Dispatcher) scheduleReminders(ctx context.Context, e ScheduleReminders) error {
	now := d.timeProvider.Now()
	handles := make([]string, 0, len(domain.ReminderOffsets))

	for _, offset := range domain.ReminderOffsets {
		at := e.StartsAt.Add(-offset)
		if !at.After(now) {
			continue
		}
		handle, err := d.collaborators.Reminders.ScheduleAt(ctx, at, domain.ReminderPayload{
			SessionID:  e.SessionID,
			Recipients: e.Recipients,
			Title:      e.Title,
			Message:    fmt.Sprintf("Session %q starts at %s", e.Title, e.StartsAt.UTC().Format(time.RFC3339)),
			StartsAt:   e.StartsAt,
		})
		if err != nil {
			d.logger.Warn("Dispatcher: failed to schedule reminder for session=%s at %s: %v", e.SessionID, at, err)
			continue
		}
		handles = append(handles, handle)
	}

	refs := d.collaborators.Refs
	if refs == nil {
		return nil
	}
	if err := refs.SetReminderHandles(ctx, e.SessionID, handles); err != nil {
		return err
	}

	// Сессию могли отменить, пока ставились напоминания
	session := d.lookup(ctx, e.SessionID)
	if session == nil || session.Status.IsActive() {
		return nil
	}
	d.logger.Info("Dispatcher: session=%s is %s, withdrawing %d reminder(s)", e.SessionID, session.Status, len(handles))
	return d.cancelReminders(ctx, CancelReminders{SessionID: e.SessionID, Handles: handles})
}

func (d *Dispatcher) createCalendarEvent(ctx context.Context, e CreateCalendarEvent) error {
	c := d.collaborators
	ref, err := c.Calendar.CreateEvent(ctx, e.Event)
	if err != nil {
		return err
	}
	if c.Refs == nil || ref == nil {
		return nil
	}
	if err := c.Refs.SetCalendarEvent(ctx, e.Event.SessionID, *ref); err != nil {
		return err
	}

	// Отмена могла закоммититься раньше, чем событие было создано
	session := d.lookup(ctx, e.Event.SessionID)
	if session == nil || session.Status.IsActive() {
		return nil
	}
	d.logger.Info("Dispatcher: session=%s is %s, cancelling calendar event %s", e.Event.SessionID, session.Status, ref.EventID)
	if err := c.Calendar.CancelEvent(ctx, ref.EventID); err != nil {
		return err
	}
	return c.Refs.SetCalendarEvent(ctx, e.Event.SessionID, domain.CalendarEventRef{})
}

// cancelReminders снимает переданные и сохраненные в сессии хэндлы и очищает их
func (d *Dispatcher) cancelReminders(ctx context.Context, e CancelReminders) error {
	c := d.collaborators
	handles := append([]string(nil), e.Handles...)
	if session := d.lookup(ctx, e.SessionID); session != nil {
		handles = mergeHandles(handles, session.ReminderHandles)
	}

	var firstErr error
	for _, handle := range handles {
		if err := c.Reminders.Cancel(ctx, handle); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.Refs != nil && e.SessionID != uuid.Nil && len(handles) > 0 {
		if err := c.Refs.SetReminderHandles(ctx, e.SessionID, nil); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// currentEventID id события из сессии; id из эффекта, если сессию прочитать не удалось
func (d *Dispatcher) currentEventID(ctx context.Context, sessionID uuid.UUID, eventID string) string {
	session := d.lookup(ctx, sessionID)
	if session == nil {
		return eventID
	}
	if session.CalendarEventID == nil {
		return ""
	}
	return *session.CalendarEventID
}

// lookup текущее состояние сессии; nil, если прочитать не удалось
func (d *Dispatcher) lookup(ctx context.Context, sessionID uuid.UUID) *domain.Session {
	if d.collaborators.Refs == nil || sessionID == uuid.Nil {
		return nil
	}
	session, err := d.collaborators.Refs.GetByID(ctx, sessionID)
	if err != nil {
		d.logger.Warn("Dispatcher: failed to read session=%s: %v", sessionID, err)
		return nil
	}
	return session
}

func mergeHandles(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, handle := range list {
			if _, ok := seen[handle]; ok || handle == "" {
				continue
			}
			seen[handle] = struct{}{}
			out = append(out, handle)
		}
	}
	return out
}

var errSkipped = errors.New("effect skipped")
