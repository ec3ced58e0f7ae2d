package create_relationship

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "запрос может создать только участник связи"
)

type Handler struct {
	service RelationshipService
	logger  Logger
}

func NewHandler(service RelationshipService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/relationships
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /relationships - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateRelationshipRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /relationships - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rel, err := h.service.RequestRelationship(r.Context(), req.ToServiceRequest(actorID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("POST /relationships - Access denied: actor=%s", actorID)
			handlers.RespondForbidden(w, msgForbidden)
		case domain.Kind(err) != nil:
			h.logger.Warn("POST /relationships - Rejected: mentor_id=%s, mentee_id=%s, error=%v", req.MentorID, req.MenteeID, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("POST /relationships - Failed to create relationship: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /relationships - Relationship requested: id=%s, mentor_id=%s, mentee_id=%s", rel.ID, rel.MentorID, rel.MenteeID)
	handlers.RespondJSON(w, http.StatusCreated, rel)
}
