package reschedule_session

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	"github.com/m04kA/SMC-MentorshipService/pkg/ptr"
)

// rescheduledEffects событие календаря переносится, напоминания пересоздаются
func rescheduledEffects(before, after *domain.Session, req *Request) []effects.Effect {
	var batch []effects.Effect

	eventID := ""
	if before.CalendarEventID != nil {
		eventID = *before.CalendarEventID
	}
	batch = append(batch,
		effects.UpdateCalendarEvent{
			SessionID: after.ID,
			EventID:   eventID,
			Update:    domain.CalendarEventUpdate{Start: ptr.Ptr(after.ScheduledAt)},
		},
		effects.CancelReminders{
			SessionID: after.ID,
			Handles:   append([]string(nil), before.ReminderHandles...),
		},
	)
	batch = append(batch, effects.ScheduleReminders{
		SessionID:  after.ID,
		Recipients: after.Participants(),
		Title:      after.Title,
		StartsAt:   after.ScheduledAt,
	})

	data := map[string]interface{}{
		"sessionId":    after.ID.String(),
		"previousTime": before.ScheduledAt.Format(time.RFC3339),
		"newTime":      after.ScheduledAt.Format(time.RFC3339),
		"reason":       req.Reason,
	}

	batch = append(batch, effects.NotifyParties(
		after.Participants(),
		domain.NotificationSessionRescheduled,
		"Session rescheduled",
		fmt.Sprintf("Session %q moved to %s", after.Title, after.ScheduledAt.Format(time.RFC3339)),
		data,
	)...)

	return append(batch, effects.RecordAudit{Entry: domain.AuditEntry{
		UserID:      req.ActorID,
		Action:      domain.AuditSessionRescheduled,
		Description: fmt.Sprintf("session %s rescheduled", after.ID),
		Metadata:    data,
	}})
}
