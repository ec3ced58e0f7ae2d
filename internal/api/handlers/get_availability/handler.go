package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability"
)

const (
	msgInvalidMentorID = "некорректный ID ментора"
	msgNotFound        = "расписание ментора не найдено"
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

// Handle GET /api/v1/mentors/{id}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mentorID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/availability - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	profile, err := h.service.GetAvailability(r.Context(), mentorID)
	if err != nil {
		if errors.Is(err, availability.ErrProfileNotFound) {
			h.logger.Warn("GET /mentors/{id}/availability - Not found: mentor_id=%s", mentorID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /mentors/{id}/availability - Failed to get availability: mentor_id=%s, error=%v", mentorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /mentors/{id}/availability - Availability retrieved: mentor_id=%s, version=%d", mentorID, profile.Version)
	handlers.RespondJSON(w, http.StatusOK, profile)
}
