package sessions

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: sessions: session not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не участник сессии
	ErrAccessDenied = errors.New("sessions: access denied")

	// ErrInvalidInput возвращается при некорректных параметрах запроса
	ErrInvalidInput = fmt.Errorf("%w: sessions: invalid input", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("sessions: internal error")
)
