package mark_notification_read

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/notify"
)

const (
	msgInvalidNotificationID = "некорректный ID уведомления"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgNotFound              = "уведомление не найдено"
)

type Handler struct {
	inbox  Inbox
	logger Logger
}

func NewHandler(inbox Inbox, logger Logger) *Handler {
	return &Handler{
		inbox:  inbox,
		logger: logger,
	}
}

// Handle POST /api/v1/notifications/{id}/read
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	notificationID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("POST /notifications/{id}/read - Invalid notification ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /notifications/{id}/read - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.inbox.MarkRead(r.Context(), userID, notificationID); err != nil {
		if errors.Is(err, notify.ErrNotificationNotFound) {
			h.logger.Warn("POST /notifications/{id}/read - Not found: id=%s, user_id=%s", notificationID, userID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("POST /notifications/{id}/read - Failed to mark read: id=%s, error=%v", notificationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /notifications/{id}/read - Marked read: id=%s, user_id=%s", notificationID, userID)
	w.WriteHeader(http.StatusNoContent)
}
