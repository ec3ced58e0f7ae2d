package submit_feedback

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
)

// feedbackEffects аудит отзыва; уведомление о завершении только для вызова, завершившего сбор
func feedbackEffects(s *domain.Session, side domain.FeedbackSide, actorID uuid.UUID, completed bool, avg float64) []effects.Effect {
	batch := []effects.Effect{
		effects.RecordAudit{Entry: domain.AuditEntry{
			UserID:      actorID,
			Action:      domain.AuditFeedbackSubmitted,
			Description: fmt.Sprintf("%s feedback for session %s", side, s.ID),
			Metadata: map[string]interface{}{
				"sessionId": s.ID.String(),
				"side":      string(side),
			},
		}},
	}

	if !completed {
		return batch
	}

	return append(batch, effects.NotifyParties(
		s.Participants(),
		domain.NotificationFeedbackComplete,
		"Feedback complete",
		fmt.Sprintf("Both sides rated session %q, average rating %.1f", s.Title, avg),
		map[string]interface{}{
			"sessionId": s.ID.String(),
			"avgRating": avg,
		},
	)...)
}
