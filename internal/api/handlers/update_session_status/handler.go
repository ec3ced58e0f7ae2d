package update_session_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "менять статус может только участник сессии"
)

type Handler struct {
	useCase UpdateStatusUseCase
	logger  Logger
}

func NewHandler(useCase UpdateStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/sessions/{id}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /sessions/{id}/status - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /sessions/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /sessions/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.UpdateStatus(r.Context(), req.ToUseCaseRequest(sessionID, actorID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotParticipant):
			h.logger.Warn("PATCH /sessions/{id}/status - Actor is not a participant: session_id=%s, actor=%s", sessionID, actorID)
			handlers.RespondForbidden(w, msgForbidden)
		case domain.Kind(err) != nil:
			h.logger.Warn("PATCH /sessions/{id}/status - Rejected: session_id=%s, status=%s, error=%v", sessionID, req.Status, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("PATCH /sessions/{id}/status - Failed to update status: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /sessions/{id}/status - Status changed: session_id=%s, %s -> %s",
		sessionID, result.PreviousStatus, result.Session.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
