package get_user_sessions

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidQuery  = "некорректные параметры запроса"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "можно смотреть только свои сессии"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{id}/sessions?status=scheduled&from=...&to=...&limit=50
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /users/{id}/sessions - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, err := parseQuery(r, userID, requesterID)
	if err != nil {
		h.logger.Warn("GET /users/{id}/sessions - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.ListUserSessions(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/sessions - Access denied: user_id=%s, requester=%s", userID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)
		case domain.Kind(err) != nil:
			h.logger.Warn("GET /users/{id}/sessions - Rejected: user_id=%s, error=%v", userID, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("GET /users/{id}/sessions - Failed to list sessions: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/sessions - Sessions listed: user_id=%s, count=%d", userID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseQuery(r *http.Request, userID, requesterID uuid.UUID) (*models.ListUserSessionsRequest, error) {
	q := r.URL.Query()
	req := &models.ListUserSessionsRequest{
		UserID:      userID,
		RequesterID: requesterID,
	}

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	for name, dst := range map[string]**time.Time{"from": &req.From, "to": &req.To} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		*dst = &t
	}

	limit, err := handlers.QueryInt(r, "limit", 0)
	if err != nil {
		return nil, err
	}
	req.Limit = limit

	return req, nil
}
