package update_status

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// validateRequest валидирует входные данные и разбирает целевой статус
func validateRequest(req *Request) (domain.SessionStatus, error) {
	if req.SessionID == uuid.Nil {
		return "", fmt.Errorf("%w: sessionId is required", domain.ErrInvalidInput)
	}

	status, err := domain.ParseSessionStatus(req.Status)
	if err != nil {
		return "", err
	}

	if len(req.Notes) > domain.MaxNotesLength {
		return "", fmt.Errorf("%w: notes are too long", domain.ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return "", fmt.Errorf("%w: reason is too long", domain.ErrInvalidInput)
	}

	return status, nil
}
