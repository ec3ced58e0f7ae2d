package update_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability"
)

const (
	msgInvalidMentorID    = "некорректный ID ментора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "менять расписание может только сам ментор"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/mentors/{id}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mentorID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PUT /mentors/{id}/availability - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /mentors/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /mentors/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateAvailability(r.Context(), req.ToServiceRequest(mentorID, actorID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /mentors/{id}/availability - Access denied: mentor_id=%s, actor=%s", mentorID, actorID)
			handlers.RespondForbidden(w, msgForbidden)
		case domain.Kind(err) != nil:
			h.logger.Warn("PUT /mentors/{id}/availability - Rejected: mentor_id=%s, error=%v", mentorID, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("PUT /mentors/{id}/availability - Failed to update availability: mentor_id=%s, error=%v", mentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /mentors/{id}/availability - Availability saved: mentor_id=%s, version=%d", mentorID, result.Version)
	handlers.RespondJSON(w, http.StatusOK, result)
}
