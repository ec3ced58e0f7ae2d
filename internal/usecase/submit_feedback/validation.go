package submit_feedback

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// validateRequest проверяет обязательные поля; оценки проверяются при сборке отзыва стороны
func validateRequest(req *Request) error {
	if req.SessionID == uuid.Nil {
		return fmt.Errorf("%w: sessionId is required", domain.ErrInvalidInput)
	}

	if req.ActorID == uuid.Nil {
		return fmt.Errorf("%w: actor is required", domain.ErrInvalidInput)
	}

	if req.Rating == 0 {
		return fmt.Errorf("%w: rating is required", domain.ErrInvalidRating)
	}

	return nil
}
