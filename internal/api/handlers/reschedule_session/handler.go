package reschedule_session

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
	msgInvalidStart       = "некорректное новое время, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "переносить сессию может только ее участник"
)

type Handler struct {
	useCase RescheduleUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/sessions/{id}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /sessions/{id}/reschedule - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /sessions/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /sessions/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(sessionID, actorID)
	if err != nil {
		h.logger.Warn("PATCH /sessions/{id}/reschedule - Invalid newStart %q: %v", req.NewStart, err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.RescheduleSession(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotParticipant):
			h.logger.Warn("PATCH /sessions/{id}/reschedule - Actor is not a participant: session_id=%s, actor=%s", sessionID, actorID)
			handlers.RespondForbidden(w, msgForbidden)
		case domain.Kind(err) != nil:
			h.logger.Warn("PATCH /sessions/{id}/reschedule - Rejected: session_id=%s, error=%v", sessionID, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("PATCH /sessions/{id}/reschedule - Failed to reschedule: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /sessions/{id}/reschedule - Session moved: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
