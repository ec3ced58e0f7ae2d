package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every concrete error of the engine wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrBusinessRule = errors.New("business rule violation")
	ErrConflict     = errors.New("scheduling conflict")
)

var (
	ErrInvalidInput        = fmt.Errorf("%w: invalid input data", ErrValidation)
	ErrDurationOutOfBounds = fmt.Errorf("%w: duration is out of bounds", ErrValidation)
	ErrTooLateToSchedule   = fmt.Errorf("%w: start time violates minimum advance notice", ErrValidation)
	ErrInvalidStatus       = fmt.Errorf("%w: unknown session status", ErrValidation)
	ErrInvalidRating       = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrInvalidAvailability = fmt.Errorf("%w: invalid availability", ErrValidation)
	ErrInvalidRecurrence   = fmt.Errorf("%w: invalid recurrence pattern", ErrValidation)

	ErrInvalidTransition             = fmt.Errorf("%w: status transition is not allowed", ErrBusinessRule)
	ErrRescheduleNotAllowed          = fmt.Errorf("%w: session cannot be rescheduled in its current status", ErrBusinessRule)
	ErrDailyCapacityReached          = fmt.Errorf("%w: mentor daily session limit reached", ErrBusinessRule)
	ErrWeeklyCapacityReached         = fmt.Errorf("%w: mentor weekly session limit reached", ErrBusinessRule)
	ErrFeedbackNotAllowed            = fmt.Errorf("%w: feedback is accepted only for completed sessions", ErrBusinessRule)
	ErrFeedbackAlreadySubmitted      = fmt.Errorf("%w: feedback already submitted", ErrBusinessRule)
	ErrNotParticipant                = fmt.Errorf("%w: actor is not a participant of the session", ErrBusinessRule)
	ErrInvalidRelationshipTransition = fmt.Errorf("%w: relationship status change is not allowed", ErrBusinessRule)

	ErrSlotConflict = fmt.Errorf("%w: slot overlaps an existing active session", ErrConflict)
)

// Kind возвращает вид ошибки или nil, если ошибка не относится ни к одному виду
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrBusinessRule, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindLabel короткое имя вида ошибки для метрик и логов
func KindLabel(err error) string {
	switch Kind(err) {
	case ErrValidation:
		return "validation"
	case ErrNotFound:
		return "not_found"
	case ErrBusinessRule:
		return "business_rule"
	case ErrConflict:
		return "conflict"
	default:
		return "internal"
	}
}
