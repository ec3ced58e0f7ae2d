package reschedule_session

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// Request модель запроса на перенос сессии
type Request struct {
	SessionID uuid.UUID
	NewStart  time.Time
	Reason    string
	ActorID   uuid.UUID
}

// Response перенесенная сессия
type Response struct {
	Session      *domain.Session
	PreviousTime time.Time
}
