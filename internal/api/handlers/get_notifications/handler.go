package get_notifications

import (
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidLimit  = "некорректный limit"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "можно смотреть только свои уведомления"
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

// Handle GET /api/v1/users/{id}/notifications?unread=true&limit=50
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /users/{id}/notifications - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/notifications - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if requesterID != userID {
		h.logger.Warn("GET /users/{id}/notifications - Access denied: user_id=%s, requester=%s", userID, requesterID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	limit, err := handlers.QueryInt(r, "limit", 0)
	if err != nil {
		h.logger.Warn("GET /users/{id}/notifications - Invalid limit: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLimit)
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"

	rows, err := h.inbox.ListForUser(r.Context(), userID, unreadOnly, limit)
	if err != nil {
		h.logger.Error("GET /users/{id}/notifications - Failed to list notifications: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{id}/notifications - Notifications listed: user_id=%s, count=%d", userID, len(rows))
	handlers.RespondJSON(w, http.StatusOK, FromInbox(rows))
}
