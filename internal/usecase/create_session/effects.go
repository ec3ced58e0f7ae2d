package create_session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
)

// createdEffects календарь, уведомления, напоминания и аудит новой сессии
func createdEffects(s *domain.Session, actorID uuid.UUID) []effects.Effect {
	batch := []effects.Effect{
		effects.CreateCalendarEvent{Event: domain.CalendarEvent{
			SessionID:       s.ID,
			Title:           s.Title,
			Description:     s.Description,
			Start:           s.ScheduledAt,
			DurationMinutes: s.DurationMinutes,
			Attendees:       s.Participants(),
		}},
	}

	batch = append(batch, effects.NotifyParties(
		s.Participants(),
		domain.NotificationSessionCreated,
		"New mentorship session",
		fmt.Sprintf("Session %q is scheduled for %s", s.Title, s.ScheduledAt.Format(time.RFC3339)),
		map[string]interface{}{"sessionId": s.ID.String()},
	)...)

	batch = append(batch,
		effects.ScheduleReminders{
			SessionID:  s.ID,
			Recipients: s.Participants(),
			Title:      s.Title,
			StartsAt:   s.ScheduledAt,
		},
		effects.RecordAudit{Entry: domain.AuditEntry{
			UserID:      actorID,
			Action:      domain.AuditSessionCreated,
			Description: fmt.Sprintf("session %s created", s.ID),
			Metadata: map[string]interface{}{
				"sessionId":   s.ID.String(),
				"mentorId":    s.MentorID.String(),
				"menteeId":    s.MenteeID.String(),
				"scheduledAt": s.ScheduledAt.Format(time.RFC3339),
				"recurring":   s.ParentSessionID != nil,
			},
		}},
	)
	return batch
}
