package mark_notification_read

import (
	"context"

	"github.com/google/uuid"
)

type Inbox interface {
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
