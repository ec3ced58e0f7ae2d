package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxRangeDays int) error {
	if req.MentorID == uuid.Nil {
		return fmt.Errorf("%w: mentorId is required", domain.ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidInput)
	}

	start, end := calendarDay(req.StartDate, time.UTC), calendarDay(req.EndDate, time.UTC)
	if end.Before(start) {
		return fmt.Errorf("%w: end date is before start date", domain.ErrInvalidInput)
	}

	if maxRangeDays > 0 && int(end.Sub(start).Hours()/24)+1 > maxRangeDays {
		return ErrRangeTooLong
	}

	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", domain.ErrInvalidInput)
	}

	return nil
}

// calendarDay полночь того же календарного дня в поясе loc
func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
