package effects

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// Effect best-effort side effect requested by a state change.
// Выполняется диспетчером после коммита основной транзакции.
type Effect interface {
	Name() string
}

// CreateCalendarEvent создать событие и сохранить ссылку на него в сессии
type CreateCalendarEvent struct {
	Event domain.CalendarEvent
}

// UpdateCalendarEvent синхронизировать событие после переноса
type UpdateCalendarEvent struct {
	SessionID uuid.UUID
	EventID   string
	Update    domain.CalendarEventUpdate
}

// CancelCalendarEvent отменить событие
type CancelCalendarEvent struct {
	SessionID uuid.UUID
	EventID   string
}

// Notify уведомить участника
type Notify struct {
	Notification domain.Notification
}

// ScheduleReminders поставить напоминания за ReminderOffsets до начала и сохранить хэндлы
type ScheduleReminders struct {
	SessionID  uuid.UUID
	Recipients []uuid.UUID
	Title      string
	StartsAt   time.Time
}

// CancelReminders снять ранее поставленные напоминания
type CancelReminders struct {
	SessionID uuid.UUID
	Handles   []string
}

// RecordAudit записать в журнал аудита
type RecordAudit struct {
	Entry domain.AuditEntry
}

func (CreateCalendarEvent) Name() string { return "calendar_create" }
func (UpdateCalendarEvent) Name() string { return "calendar_update" }
func (CancelCalendarEvent) Name() string { return "calendar_cancel" }
func (Notify) Name() string              { return "notify" }
func (ScheduleReminders) Name() string   { return "reminders_schedule" }
func (CancelReminders) Name() string     { return "reminders_cancel" }
func (RecordAudit) Name() string         { return "audit" }

// NotifyParties одно уведомление каждому из получателей
func NotifyParties(recipients []uuid.UUID, kind domain.NotificationType, title, message string, data map[string]interface{}) []Effect {
	out := make([]Effect, 0, len(recipients))
	for _, userID := range recipients {
		out = append(out, Notify{Notification: domain.Notification{
			UserID:  userID,
			Type:    kind,
			Title:   title,
			Message: message,
			Data:    data,
		}})
	}
	return out
}

// ForCancelledSession общая часть для отмены и NO_SHOW: календарь и напоминания.
// Ссылки, сохраненные после коммита, диспетчер дочитывает из сессии.
func ForCancelledSession(s *domain.Session) []Effect {
	eventID := ""
	if s.CalendarEventID != nil {
		eventID = *s.CalendarEventID
	}
	return []Effect{
		CancelCalendarEvent{SessionID: s.ID, EventID: eventID},
		CancelReminders{SessionID: s.ID, Handles: append([]string(nil), s.ReminderHandles...)},
	}
}

// sessionsOf сессии, которых касается пачка
func sessionsOf(batch []Effect) []uuid.UUID {
	var out []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, effect := range batch {
		var id uuid.UUID
		switch e := effect.(type) {
		case CreateCalendarEvent:
			id = e.Event.SessionID
		case UpdateCalendarEvent:
			id = e.SessionID
		case CancelCalendarEvent:
			id = e.SessionID
		case ScheduleReminders:
			id = e.SessionID
		case CancelReminders:
			id = e.SessionID
		}
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
