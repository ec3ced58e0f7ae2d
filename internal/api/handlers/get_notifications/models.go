package get_notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/infra/notify"
)

type NotificationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt string          `json:"createdAt"`
	ReadAt    *string         `json:"readAt,omitempty"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}

func FromInbox(rows []notify.Notification) *NotificationListResponse {
	out := &NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(rows)),
		Total:         len(rows),
	}
	for _, n := range rows {
		item := NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		}
		if len(n.Data) > 0 {
			item.Data = json.RawMessage(n.Data)
		}
		if n.ReadAt != nil {
			readAt := n.ReadAt.UTC().Format(time.RFC3339)
			item.ReadAt = &readAt
		}
		out.Notifications = append(out.Notifications, item)
	}
	return out
}
