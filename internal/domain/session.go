package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session a booked mentorship meeting between one mentor and one mentee
type Session struct {
	ID              uuid.UUID
	MentorID        uuid.UUID
	MenteeID        uuid.UUID
	RelationshipID  *uuid.UUID
	ParentSessionID *uuid.UUID // первая сессия серии для повторяющихся встреч

	Title       string
	Description string
	Agenda      string
	Objectives  []string

	ScheduledAt     time.Time
	DurationMinutes int
	Status          SessionStatus

	StartedAt             *time.Time
	CompletedAt           *time.Time
	ActualDurationMinutes *int
	CancelledAt           *time.Time
	CancellationReason    *string
	CancelledBy           *uuid.UUID

	// Факт переноса хранится отдельно от статуса
	OriginalStart   *time.Time
	RescheduleCount int

	StatusHistory     []StatusChange
	RescheduleHistory []RescheduleRecord

	CalendarEventID *string
	JoinLink        *string
	ReminderHandles []string

	MentorFeedback         *MentorFeedback
	MenteeFeedback         *MenteeFeedback
	MentorFeedbackReceived bool
	MenteeFeedbackReceived bool
	FeedbackComplete       bool
	AvgRating              *float64

	FeedbackRemindersSent  int
	LastFeedbackReminderAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndsAt returns the exclusive end of the booked interval
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

func (s *Session) Interval() Interval {
	return Interval{Start: s.ScheduledAt, End: s.EndsAt()}
}

func (s *Session) IsActive() bool {
	return s.Status.IsActive()
}

// Involves returns true if the user is the mentor or the mentee of the session
func (s *Session) Involves(userID uuid.UUID) bool {
	return userID != uuid.Nil && (s.MentorID == userID || s.MenteeID == userID)
}

// Participants ментор и менти
func (s *Session) Participants() []uuid.UUID {
	return []uuid.UUID{s.MentorID, s.MenteeID}
}

func (s *Session) WasRescheduled() bool {
	return s.RescheduleCount > 0
}

// MissingFeedbackFrom участники, еще не оставившие отзыв
func (s *Session) MissingFeedbackFrom() []uuid.UUID {
	var missing []uuid.UUID
	if !s.MentorFeedbackReceived {
		missing = append(missing, s.MentorID)
	}
	if !s.MenteeFeedbackReceived {
		missing = append(missing, s.MenteeID)
	}
	return missing
}

// Clone глубокая копия сессии
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.RelationshipID = cloneUUID(s.RelationshipID)
	c.ParentSessionID = cloneUUID(s.ParentSessionID)
	c.CancelledBy = cloneUUID(s.CancelledBy)
	c.Objectives = append([]string(nil), s.Objectives...)
	c.StartedAt = cloneTime(s.StartedAt)
	c.CompletedAt = cloneTime(s.CompletedAt)
	c.CancelledAt = cloneTime(s.CancelledAt)
	c.OriginalStart = cloneTime(s.OriginalStart)
	c.LastFeedbackReminderAt = cloneTime(s.LastFeedbackReminderAt)
	if s.ActualDurationMinutes != nil {
		v := *s.ActualDurationMinutes
		c.ActualDurationMinutes = &v
	}
	if s.CancellationReason != nil {
		v := *s.CancellationReason
		c.CancellationReason = &v
	}
	if s.CalendarEventID != nil {
		v := *s.CalendarEventID
		c.CalendarEventID = &v
	}
	if s.JoinLink != nil {
		v := *s.JoinLink
		c.JoinLink = &v
	}
	if s.AvgRating != nil {
		v := *s.AvgRating
		c.AvgRating = &v
	}
	if s.MentorFeedback != nil {
		fb := *s.MentorFeedback
		c.MentorFeedback = &fb
	}
	if s.MenteeFeedback != nil {
		fb := *s.MenteeFeedback
		c.MenteeFeedback = &fb
	}
	c.StatusHistory = append([]StatusChange(nil), s.StatusHistory...)
	c.RescheduleHistory = append([]RescheduleRecord(nil), s.RescheduleHistory...)
	c.ReminderHandles = append([]string(nil), s.ReminderHandles...)
	return &c
}

// SessionFilter фильтр списка сессий участника
type SessionFilter struct {
	UserID uuid.UUID
	Status *SessionStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}

// PendingFeedbackFilter отбор завершенных сессий, которым пора напомнить об отзыве
type PendingFeedbackFilter struct {
	CompletedBefore time.Time
	// RemindedBefore последнее напоминание не позже этого момента (или его не было)
	RemindedBefore time.Time
	MaxReminders   int // 0 = без ограничения
	Limit          int
}

// Matches проверяет сессию на соответствие фильтру
func (f PendingFeedbackFilter) Matches(s *Session) bool {
	if s.Status != StatusCompleted || s.FeedbackComplete {
		return false
	}
	if s.CompletedAt == nil || !s.CompletedAt.Before(f.CompletedBefore) {
		return false
	}
	if s.MentorFeedbackReceived && s.MenteeFeedbackReceived {
		return false
	}
	if f.MaxReminders > 0 && s.FeedbackRemindersSent >= f.MaxReminders {
		return false
	}
	return s.LastFeedbackReminderAt == nil || !s.LastFeedbackReminderAt.After(f.RemindedBefore)
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
