package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType тип уведомления участнику
type NotificationType string

const (
	NotificationSessionCreated     NotificationType = "session_created"
	NotificationStatusChanged      NotificationType = "session_status_changed"
	NotificationSessionRescheduled NotificationType = "session_rescheduled"
	NotificationSessionReminder    NotificationType = "session_reminder"
	NotificationSessionNoShow      NotificationType = "session_no_show"
	NotificationFeedbackRequest    NotificationType = "feedback_request"
	NotificationFeedbackComplete   NotificationType = "feedback_complete"
	NotificationRelationship       NotificationType = "relationship_status_changed"
)

// Notification сообщение для Notifier
type Notification struct {
	UserID  uuid.UUID
	Type    NotificationType
	Title   string
	Message string
	Data    map[string]interface{}
}

// CalendarEvent данные для создания события во внешнем календаре
type CalendarEvent struct {
	SessionID       uuid.UUID
	Title           string
	Description     string
	Start           time.Time
	DurationMinutes int
	Attendees       []uuid.UUID
}

// CalendarEventRef ссылка на созданное событие
type CalendarEventRef struct {
	EventID  string
	JoinLink string
}

// CalendarEventUpdate изменяемые поля события
type CalendarEventUpdate struct {
	Title           *string
	Start           *time.Time
	DurationMinutes *int
}

// ReminderPayload что отправить при срабатывании напоминания
type ReminderPayload struct {
	SessionID  uuid.UUID
	Recipients []uuid.UUID
	Title      string
	Message    string
	StartsAt   time.Time
}

// AuditEntry запись журнала аудита
type AuditEntry struct {
	UserID      uuid.UUID
	Action      string
	Description string
	Metadata    map[string]interface{}
}

// Audit actions
const (
	AuditSessionCreated      = "session.created"
	AuditSessionStatus       = "session.status_changed"
	AuditSessionRescheduled  = "session.rescheduled"
	AuditSessionNoShow       = "session.no_show"
	AuditFeedbackSubmitted   = "session.feedback_submitted"
	AuditAvailabilityUpdated = "mentor.availability_updated"
	AuditRelationshipCreated = "relationship.requested"
	AuditRelationshipChanged = "relationship.status_changed"
)

// ParticipantStats накопленные показатели участника
type ParticipantStats struct {
	UserID            uuid.UUID
	CompletedSessions int
	TotalHours        float64
	UpdatedAt         time.Time
}
