package submit_feedback

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
	msgForbidden          = "оставить отзыв может только участник сессии"
)

type Handler struct {
	useCase SubmitFeedbackUseCase
	logger  Logger
}

func NewHandler(useCase SubmitFeedbackUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{id}/feedback
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/feedback - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions/{id}/feedback - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req FeedbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/feedback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.SubmitFeedback(r.Context(), req.ToUseCaseRequest(sessionID, actorID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotParticipant):
			h.logger.Warn("POST /sessions/{id}/feedback - Actor is not a participant: session_id=%s, actor=%s", sessionID, actorID)
			handlers.RespondForbidden(w, msgForbidden)
		case domain.Kind(err) != nil:
			h.logger.Warn("POST /sessions/{id}/feedback - Rejected: session_id=%s, error=%v", sessionID, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("POST /sessions/{id}/feedback - Failed to submit feedback: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/feedback - Feedback saved: session_id=%s, side=%s, complete=%t",
		sessionID, result.Side, result.FeedbackComplete)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
