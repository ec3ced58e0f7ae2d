package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// transitions единственная таблица допустимых переходов статуса сессии.
// NO_SHOW выставляется только фоновой очисткой через MarkNoShow и сюда не входит.
var transitions = map[SessionStatus][]SessionStatus{
	StatusScheduled:   {StatusInProgress, StatusCancelled, StatusRescheduled},
	StatusRescheduled: {StatusInProgress, StatusCancelled, StatusScheduled},
	StatusInProgress:  {StatusCompleted, StatusCancelled},
	StatusConfirmed:   nil,
	StatusCompleted:   nil,
	StatusCancelled:   nil,
	StatusNoShow:      nil,
}

// CanTransition reports whether from -> to is listed in the transition table
func CanTransition(from, to SessionStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions копия списка допустимых целевых статусов
func AllowedTransitions(from SessionStatus) []SessionStatus {
	return append([]SessionStatus(nil), transitions[from]...)
}

// StatusChange запись журнала смены статусов
type StatusChange struct {
	From  SessionStatus `json:"from"`
	To    SessionStatus `json:"to"`
	At    time.Time     `json:"at"`
	Actor uuid.UUID     `json:"actor"`
	Notes string        `json:"notes,omitempty"`
}

// RescheduleRecord запись журнала переносов
type RescheduleRecord struct {
	PreviousTime time.Time `json:"previousTime"`
	NewTime      time.Time `json:"newTime"`
	Reason       string    `json:"reason,omitempty"`
	Actor        uuid.UUID `json:"actor"`
	At           time.Time `json:"at"`
}

// Transition ручная смена статуса
type Transition struct {
	To     SessionStatus
	Actor  uuid.UUID
	Notes  string
	Reason string // причина отмены, для CANCELLED
	At     time.Time
}

// ApplyTransition применяет переход по таблице. При ошибке сессия не меняется.
func (s *Session) ApplyTransition(t Transition) error {
	if !CanTransition(s.Status, t.To) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, t.To)
	}

	at := t.At.UTC()
	switch t.To {
	case StatusInProgress:
		s.StartedAt = &at
	case StatusCompleted:
		s.CompletedAt = &at
		started := s.ScheduledAt
		if s.StartedAt != nil {
			started = *s.StartedAt
		}
		minutes := int(at.Sub(started).Round(time.Minute) / time.Minute)
		if minutes < 0 {
			minutes = 0
		}
		s.ActualDurationMinutes = &minutes
	case StatusCancelled:
		s.CancelledAt = &at
		reason := t.Reason
		if reason == "" {
			reason = t.Notes
		}
		s.CancellationReason = &reason
		actor := t.Actor
		s.CancelledBy = &actor
	}

	s.appendStatusChange(t.To, at, t.Actor, t.Notes)
	return nil
}

// MarkNoShow переводит просроченную сессию в NO_SHOW от имени системы
func (s *Session) MarkNoShow(at time.Time, notes string) error {
	if s.Status != StatusScheduled && s.Status != StatusRescheduled {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StatusNoShow)
	}
	s.appendStatusChange(StatusNoShow, at.UTC(), uuid.Nil, notes)
	return nil
}

// CanReschedule перенос разрешен только из SCHEDULED и RESCHEDULED
func (s *Session) CanReschedule() bool {
	return s.Status == StatusScheduled || s.Status == StatusRescheduled
}

// Reschedule переносит сессию на newStart, дописывая журнал переносов.
// Первое исходное время сохраняется в OriginalStart.
func (s *Session) Reschedule(newStart time.Time, reason string, actor uuid.UUID, at time.Time) error {
	if !s.CanReschedule() {
		return fmt.Errorf("%w: status %s", ErrRescheduleNotAllowed, s.Status)
	}

	at = at.UTC()
	previous := s.ScheduledAt
	if s.OriginalStart == nil {
		original := previous
		s.OriginalStart = &original
	}

	s.RescheduleHistory = append(s.RescheduleHistory, RescheduleRecord{
		PreviousTime: previous,
		NewTime:      newStart.UTC(),
		Reason:       reason,
		Actor:        actor,
		At:           at,
	})
	s.ScheduledAt = newStart.UTC()
	s.RescheduleCount++

	if s.Status != StatusRescheduled {
		s.appendStatusChange(StatusRescheduled, at, actor, reason)
	}
	return nil
}

func (s *Session) appendStatusChange(to SessionStatus, at time.Time, actor uuid.UUID, notes string) {
	s.StatusHistory = append(s.StatusHistory, StatusChange{
		From:  s.Status,
		To:    to,
		At:    at,
		Actor: actor,
		Notes: notes,
	})
	s.Status = to
	s.UpdatedAt = at
}
