package update_status

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: update_status: session not found", domain.ErrNotFound)

	// ErrConcurrentModification возвращается, когда статус сессии изменился параллельно
	ErrConcurrentModification = fmt.Errorf("%w: update_status: session was modified concurrently", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_status: internal error")
)
