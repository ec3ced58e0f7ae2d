package get_session

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
)

type SessionService interface {
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
