package reschedule_session

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: reschedule_session: session not found", domain.ErrNotFound)

	// ErrConcurrentModification возвращается, когда сессия изменилась параллельно
	ErrConcurrentModification = fmt.Errorf("%w: reschedule_session: session was modified concurrently", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_session: internal error")
)
