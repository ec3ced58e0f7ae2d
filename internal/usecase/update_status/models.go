package update_status

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// Request модель запроса на смену статуса
type Request struct {
	SessionID uuid.UUID
	Status    string    // целевой статус
	ActorID   uuid.UUID // uuid.Nil - система
	Notes     string
	Reason    string // причина отмены
}

// Response сессия после перехода
type Response struct {
	Session        *domain.Session
	PreviousStatus domain.SessionStatus
}
