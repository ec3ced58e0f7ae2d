package get_notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/infra/notify"
)

type Inbox interface {
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]notify.Notification, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
