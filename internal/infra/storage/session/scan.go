package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

const tableSessions = "mentorship_sessions"

var sessionColumns = []string{
	"id",
	"mentor_id",
	"mentee_id",
	"relationship_id",
	"parent_session_id",
	"title",
	"description",
	"agenda",
	"objectives",
	"scheduled_at",
	"duration_minutes",
	"status",
	"started_at",
	"completed_at",
	"actual_duration_minutes",
	"cancelled_at",
	"cancellation_reason",
	"cancelled_by",
	"original_scheduled_at",
	"reschedule_count",
	"status_history",
	"reschedule_history",
	"calendar_event_id",
	"join_link",
	"reminder_handles",
	"mentor_feedback",
	"mentee_feedback",
	"mentor_feedback_received",
	"mentee_feedback_received",
	"feedback_complete",
	"avg_rating",
	"feedback_reminders_sent",
	"last_feedback_reminder_at",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s                                     domain.Session
		relationshipID, parentID, cancelledBy uuid.NullUUID
		objectives, reminderHandles           pq.StringArray
		startedAt, completedAt, cancelledAt   sql.NullTime
		originalAt, lastReminderAt            sql.NullTime
		createdAt, updatedAt                  sql.NullTime
		actualDuration                        sql.NullInt64
		cancellationReason, eventID, joinLink sql.NullString
		statusHistory, rescheduleHistory      []byte
		mentorFeedback, menteeFeedback        []byte
		avgRating                             sql.NullFloat64
	)

	err := row.Scan(
		&s.ID,
		&s.MentorID,
		&s.MenteeID,
		&relationshipID,
		&parentID,
		&s.Title,
		&s.Description,
		&s.Agenda,
		&objectives,
		&s.ScheduledAt,
		&s.DurationMinutes,
		&s.Status,
		&startedAt,
		&completedAt,
		&actualDuration,
		&cancelledAt,
		&cancellationReason,
		&cancelledBy,
		&originalAt,
		&s.RescheduleCount,
		&statusHistory,
		&rescheduleHistory,
		&eventID,
		&joinLink,
		&reminderHandles,
		&mentorFeedback,
		&menteeFeedback,
		&s.MentorFeedbackReceived,
		&s.MenteeFeedbackReceived,
		&s.FeedbackComplete,
		&avgRating,
		&s.FeedbackRemindersSent,
		&lastReminderAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.ScheduledAt = s.ScheduledAt.UTC()
	s.RelationshipID = nullUUID(relationshipID)
	s.ParentSessionID = nullUUID(parentID)
	s.CancelledBy = nullUUID(cancelledBy)
	s.Objectives = []string(objectives)
	s.ReminderHandles = []string(reminderHandles)
	s.StartedAt = nullTime(startedAt)
	s.CompletedAt = nullTime(completedAt)
	s.CancelledAt = nullTime(cancelledAt)
	s.OriginalStart = nullTime(originalAt)
	s.LastFeedbackReminderAt = nullTime(lastReminderAt)
	s.CreatedAt = createdAt.Time.UTC()
	s.UpdatedAt = updatedAt.Time.UTC()

	if actualDuration.Valid {
		v := int(actualDuration.Int64)
		s.ActualDurationMinutes = &v
	}
	if cancellationReason.Valid {
		s.CancellationReason = &cancellationReason.String
	}
	if eventID.Valid {
		s.CalendarEventID = &eventID.String
	}
	if joinLink.Valid {
		s.JoinLink = &joinLink.String
	}
	if avgRating.Valid {
		s.AvgRating = &avgRating.Float64
	}

	if err := unmarshalJSON(statusHistory, &s.StatusHistory); err != nil {
		return nil, fmt.Errorf("status_history: %w", err)
	}
	if err := unmarshalJSON(rescheduleHistory, &s.RescheduleHistory); err != nil {
		return nil, fmt.Errorf("reschedule_history: %w", err)
	}
	if len(mentorFeedback) > 0 {
		s.MentorFeedback = &domain.MentorFeedback{}
		if err := json.Unmarshal(mentorFeedback, s.MentorFeedback); err != nil {
			return nil, fmt.Errorf("mentor_feedback: %w", err)
		}
	}
	if len(menteeFeedback) > 0 {
		s.MenteeFeedback = &domain.MenteeFeedback{}
		if err := json.Unmarshal(menteeFeedback, s.MenteeFeedback); err != nil {
			return nil, fmt.Errorf("mentee_feedback: %w", err)
		}
	}

	return &s, nil
}

func scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	sessions := make([]*domain.Session, 0)

	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSessions - scan row: %v", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSessions - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}

func unmarshalJSON(data []byte, dest interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func nullUUID(v uuid.NullUUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := v.UUID
	return &id
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func uuidOrNil(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
