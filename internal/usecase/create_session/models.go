package create_session

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// Request модель запроса на создание сессии
type Request struct {
	ActorID         uuid.UUID  // Кто создает сессию
	MentorID        uuid.UUID  // ID ментора
	MenteeID        uuid.UUID  // ID менти
	RelationshipID  *uuid.UUID // Связь, в рамках которой идет сессия (опционально)
	Title           string
	Description     string
	Agenda          string
	Objectives      []string
	ScheduledAt     time.Time
	DurationMinutes int                       // 0 = предпочтительная длительность ментора
	Recurrence      *domain.RecurrencePattern // Серия (опционально)
}

// Response созданная сессия и результат развертывания серии
type Response struct {
	Session     *domain.Session
	Occurrences []*domain.Session
	Skipped     []domain.SkippedOccurrence
}
