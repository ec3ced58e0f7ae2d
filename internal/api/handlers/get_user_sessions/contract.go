package get_user_sessions

import (
	"context"

	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
)

type SessionService interface {
	ListUserSessions(ctx context.Context, req *models.ListUserSessionsRequest) (*models.SessionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
