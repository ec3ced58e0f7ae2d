package get_mentor_metrics

import (
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

const (
	msgInvalidMentorID = "некорректный ID ментора"
	msgInvalidPeriod   = "некорректный период"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "показатели доступны только самому ментору"
)

type Handler struct {
	service MetricsService
	logger  Logger
}

func NewHandler(service MetricsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/mentors/{id}/metrics?periodDays=30
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mentorID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/metrics - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /mentors/{id}/metrics - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if userID != mentorID {
		h.logger.Warn("GET /mentors/{id}/metrics - Access denied: mentor_id=%s, user_id=%s", mentorID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	periodDays, err := handlers.QueryInt(r, "periodDays", 0)
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/metrics - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.GetMentorMetrics(r.Context(), mentorID, periodDays)
	if err != nil {
		if domain.Kind(err) != nil {
			h.logger.Warn("GET /mentors/{id}/metrics - Rejected: mentor_id=%s, error=%v", mentorID, err)
			handlers.RespondDomainError(w, err)
			return
		}
		h.logger.Error("GET /mentors/{id}/metrics - Failed to compute metrics: mentor_id=%s, error=%v", mentorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /mentors/{id}/metrics - Metrics computed: mentor_id=%s, period=%d, sessions=%d",
		mentorID, result.PeriodDays, result.TotalSessions)
	handlers.RespondJSON(w, http.StatusOK, result)
}
