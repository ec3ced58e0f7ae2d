package create_session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.MentorID == uuid.Nil {
		return fmt.Errorf("%w: mentorId is required", domain.ErrInvalidInput)
	}

	if req.MenteeID == uuid.Nil {
		return fmt.Errorf("%w: menteeId is required", domain.ErrInvalidInput)
	}

	if req.MentorID == req.MenteeID {
		return fmt.Errorf("%w: mentor and mentee must be different users", domain.ErrInvalidInput)
	}

	if req.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	if len(req.Title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title is too long", domain.ErrInvalidInput)
	}

	if len(req.Description) > domain.MaxDescriptionLength || len(req.Agenda) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description is too long", domain.ErrInvalidInput)
	}

	if len(req.Objectives) > domain.MaxObjectives {
		return fmt.Errorf("%w: too many objectives", domain.ErrInvalidInput)
	}

	if req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt is required", domain.ErrInvalidInput)
	}

	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", domain.ErrInvalidInput)
	}

	if req.Recurrence != nil {
		if err := req.Recurrence.Validate(); err != nil {
			return err
		}
	}

	// uuid.Nil = системный вызов
	if req.ActorID != uuid.Nil && req.ActorID != req.MentorID && req.ActorID != req.MenteeID {
		return domain.ErrNotParticipant
	}

	return nil
}
