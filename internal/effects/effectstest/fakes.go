// Package effectstest in-memory fakes of the dispatcher collaborators.
package effectstest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

var (
	ErrUnavailable = errors.New("collaborator unavailable")
	ErrNoSession   = errors.New("session not registered")
)

// Calendar записывает вызовы; Fail заставляет все вызовы падать
type Calendar struct {
	mu        sync.Mutex
	Fail      bool
	Created   []domain.CalendarEvent
	Updated   map[string]domain.CalendarEventUpdate
	Cancelled []string
}

func NewCalendar() *Calendar {
	return &Calendar{Updated: map[string]domain.CalendarEventUpdate{}}
}

func (c *Calendar) CreateEvent(_ context.Context, event domain.CalendarEvent) (*domain.CalendarEventRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return nil, ErrUnavailable
	}
	c.Created = append(c.Created, event)
	return &domain.CalendarEventRef{
		EventID:  "evt-" + event.SessionID.String(),
		JoinLink: "https://meet.example.com/" + event.SessionID.String(),
	}, nil
}

func (c *Calendar) UpdateEvent(_ context.Context, eventID string, update domain.CalendarEventUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return ErrUnavailable
	}
	c.Updated[eventID] = update
	return nil
}

func (c *Calendar) CancelEvent(_ context.Context, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return ErrUnavailable
	}
	c.Cancelled = append(c.Cancelled, eventID)
	return nil
}

func (c *Calendar) CancelledIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Cancelled...)
}

func (c *Calendar) CreatedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Created)
}

// Notifier собирает уведомления
type Notifier struct {
	mu   sync.Mutex
	Fail bool
	sent []domain.Notification
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(_ context.Context, notification domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail {
		return ErrUnavailable
	}
	n.sent = append(n.sent, notification)
	return nil
}

func (n *Notifier) Sent() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.sent...)
}

// OfType уведомления заданного типа
func (n *Notifier) OfType(kind domain.NotificationType) []domain.Notification {
	var out []domain.Notification
	for _, notification := range n.Sent() {
		if notification.Type == kind {
			out = append(out, notification)
		}
	}
	return out
}

// Reminders хранит активные напоминания по хэндлу
type Reminders struct {
	mu        sync.Mutex
	seq       int
	Fail      bool
	Active    map[string]time.Time
	Cancelled []string
}

func NewReminders() *Reminders {
	return &Reminders{Active: map[string]time.Time{}}
}

func (r *Reminders) ScheduleAt(_ context.Context, at time.Time, payload domain.ReminderPayload) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return "", ErrUnavailable
	}
	r.seq++
	handle := fmt.Sprintf("rem-%s-%d", payload.SessionID, r.seq)
	r.Active[handle] = at
	return handle, nil
}

// ActiveCount число активных напоминаний
func (r *Reminders) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Active)
}

func (r *Reminders) Cancel(_ context.Context, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Active, handle)
	r.Cancelled = append(r.Cancelled, handle)
	return nil
}

// ActiveTimes время срабатывания активных напоминаний
func (r *Reminders) ActiveTimes() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Time, 0, len(r.Active))
	for _, at := range r.Active {
		out = append(out, at)
	}
	return out
}

// Audit собирает записи журнала
type Audit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func NewAudit() *Audit {
	return &Audit{}
}

func (a *Audit) Record(_ context.Context, entry domain.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *Audit) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

// Refs запоминает ссылки, сохраненные диспетчером.
// GetByID отдает сессии, добавленные через Put, с сохраненными ссылками.
type Refs struct {
	mu       sync.Mutex
	Calendar map[uuid.UUID]domain.CalendarEventRef
	Handles  map[uuid.UUID][]string
	sessions map[uuid.UUID]*domain.Session
}

func NewRefs() *Refs {
	return &Refs{
		Calendar: map[uuid.UUID]domain.CalendarEventRef{},
		Handles:  map[uuid.UUID][]string{},
		sessions: map[uuid.UUID]*domain.Session{},
	}
}

// Put регистрирует или заменяет сессию
func (r *Refs) Put(s *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
}

func (r *Refs) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	c := s.Clone()
	if ref, ok := r.Calendar[id]; ok {
		eventID, joinLink := ref.EventID, ref.JoinLink
		c.CalendarEventID = &eventID
		c.JoinLink = &joinLink
	}
	if handles, ok := r.Handles[id]; ok {
		c.ReminderHandles = append([]string(nil), handles...)
	}
	return c, nil
}

// HandlesOf сохраненные хэндлы сессии
func (r *Refs) HandlesOf(id uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Handles[id]...)
}

func (r *Refs) SetCalendarEvent(_ context.Context, sessionID uuid.UUID, ref domain.CalendarEventRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calendar[sessionID] = ref
	return nil
}

func (r *Refs) SetReminderHandles(_ context.Context, sessionID uuid.UUID, handles []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Handles[sessionID] = handles
	return nil
}

// Clock фиксированные часы
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
