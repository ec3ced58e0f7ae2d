package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

var (
	// ErrMentorNotFound возвращается, когда у ментора нет профиля доступности
	ErrMentorNotFound = fmt.Errorf("%w: get_available_slots: mentor availability not found", domain.ErrNotFound)

	// ErrRangeTooLong возвращается, когда диапазон дат превышает допустимый
	ErrRangeTooLong = fmt.Errorf("%w: get_available_slots: date range is too long", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
