package create_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректное время начала, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotParticipant     = "создать сессию может только ее участник"
)

type Handler struct {
	useCase CreateSessionUseCase
	logger  Logger
}

func NewHandler(useCase CreateSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actorID)
	if err != nil {
		h.logger.Warn("POST /sessions - Invalid scheduledAt %q: %v", req.ScheduledAt, err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.CreateSession(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotParticipant):
			h.logger.Warn("POST /sessions - Actor is not a participant: actor=%s", actorID)
			handlers.RespondForbidden(w, msgNotParticipant)
		case domain.Kind(err) != nil:
			h.logger.Warn("POST /sessions - Rejected: mentor=%s, mentee=%s, error=%v", req.MentorID, req.MenteeID, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("POST /sessions - Failed to create session: mentor=%s, mentee=%s, error=%v", req.MentorID, req.MenteeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions - Session created: session_id=%s, occurrences=%d, skipped=%d",
		result.Session.ID, len(result.Occurrences), len(result.Skipped))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
