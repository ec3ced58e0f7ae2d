package submit_feedback

import (
	"context"

	submitFeedback "github.com/m04kA/SMC-MentorshipService/internal/usecase/submit_feedback"
)

type SubmitFeedbackUseCase interface {
	SubmitFeedback(ctx context.Context, req *submitFeedback.Request) (*submitFeedback.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
