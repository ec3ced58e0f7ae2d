package update_relationship_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability/models"
)

const (
	msgInvalidRelationshipID = "некорректный ID связи"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgForbidden             = "недостаточно прав для смены статуса"
)

type UpdateRelationshipStatusRequest struct {
	Status string `json:"status"`
}

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

// Handle PATCH /api/v1/relationships/{id}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	relationshipID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /relationships/{id}/status - Invalid relationship ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRelationshipID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /relationships/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateRelationshipStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /relationships/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rel, err := h.service.ChangeRelationshipStatus(r.Context(), &models.ChangeRelationshipStatusRequest{
		RelationshipID: relationshipID,
		ActorID:        actorID,
		Status:         req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PATCH /relationships/{id}/status - Access denied: id=%s, actor=%s", relationshipID, actorID)
			handlers.RespondForbidden(w, msgForbidden)
		case domain.Kind(err) != nil:
			h.logger.Warn("PATCH /relationships/{id}/status - Rejected: id=%s, status=%s, error=%v", relationshipID, req.Status, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("PATCH /relationships/{id}/status - Failed to change status: id=%s, error=%v", relationshipID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /relationships/{id}/status - Status changed: id=%s, status=%s", rel.ID, rel.Status)
	handlers.RespondJSON(w, http.StatusOK, rel)
}
