package update_status

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
)

// transitionEffects уведомления о смене статуса и действия, зависящие от нового статуса.
// При COMPLETED событие календаря остается как есть.
func transitionEffects(s *domain.Session, previous domain.SessionStatus, actorID uuid.UUID) []effects.Effect {
	data := map[string]interface{}{
		"sessionId": s.ID.String(),
		"from":      previous.String(),
		"to":        s.Status.String(),
	}

	batch := effects.NotifyParties(
		s.Participants(),
		domain.NotificationStatusChanged,
		"Session status changed",
		fmt.Sprintf("Session %q is now %s", s.Title, s.Status),
		data,
	)

	switch s.Status {
	case domain.StatusCancelled:
		batch = append(batch, effects.ForCancelledSession(s)...)
	case domain.StatusCompleted:
		batch = append(batch, effects.NotifyParties(
			s.MissingFeedbackFrom(),
			domain.NotificationFeedbackRequest,
			"Share your feedback",
			fmt.Sprintf("Please rate session %q", s.Title),
			map[string]interface{}{"sessionId": s.ID.String()},
		)...)
	}

	return append(batch, effects.RecordAudit{Entry: domain.AuditEntry{
		UserID:      actorID,
		Action:      domain.AuditSessionStatus,
		Description: fmt.Sprintf("session %s: %s -> %s", s.ID, previous, s.Status),
		Metadata:    data,
	}})
}
