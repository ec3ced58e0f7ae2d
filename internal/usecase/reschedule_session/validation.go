package reschedule_session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID == uuid.Nil {
		return fmt.Errorf("%w: sessionId is required", domain.ErrInvalidInput)
	}

	if req.NewStart.IsZero() {
		return fmt.Errorf("%w: newStart is required", domain.ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxNotesLength {
		return fmt.Errorf("%w: reason is too long", domain.ErrInvalidInput)
	}

	return nil
}
