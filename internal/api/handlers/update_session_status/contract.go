package update_session_status

import (
	"context"

	updateStatus "github.com/m04kA/SMC-MentorshipService/internal/usecase/update_status"
)

type UpdateStatusUseCase interface {
	UpdateStatus(ctx context.Context, req *updateStatus.Request) (*updateStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
