package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-MentorshipService/internal/usecase/get_available_slots"
)

const (
	msgInvalidMentorID = "некорректный ID ментора"
	msgMissingStart    = "дата начала обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration = "некорректная длительность"
	msgMentorNotFound  = "расписание ментора не найдено"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/mentors/{id}/available-slots
// Query params: start (required, YYYY-MM-DD), end (YYYY-MM-DD, по умолчанию start), duration (минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mentorID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/available-slots - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	query := r.URL.Query()
	startStr := query.Get("start")
	if startStr == "" {
		h.logger.Warn("GET /mentors/{id}/available-slots - Missing start date")
		handlers.RespondBadRequest(w, msgMissingStart)
		return
	}

	duration, err := handlers.QueryInt(r, "duration", 0)
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/available-slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	useCaseReq, err := ToUseCaseRequest(mentorID, startStr, query.Get("end"), duration)
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.GetAvailableSlots(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrMentorNotFound):
			h.logger.Warn("GET /mentors/{id}/available-slots - Mentor availability not found: mentor_id=%s", mentorID)
			handlers.RespondNotFound(w, msgMentorNotFound)
		case domain.Kind(err) != nil:
			h.logger.Warn("GET /mentors/{id}/available-slots - Rejected: mentor_id=%s, error=%v", mentorID, err)
			handlers.RespondDomainError(w, err)
		default:
			h.logger.Error("GET /mentors/{id}/available-slots - Failed to get slots: mentor_id=%s, error=%v", mentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /mentors/{id}/available-slots - Slots retrieved: mentor_id=%s, slots_count=%d", mentorID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
