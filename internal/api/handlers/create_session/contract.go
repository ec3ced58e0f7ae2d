package create_session

import (
	"context"

	createSession "github.com/m04kA/SMC-MentorshipService/internal/usecase/create_session"
)

type CreateSessionUseCase interface {
	CreateSession(ctx context.Context, req *createSession.Request) (*createSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
