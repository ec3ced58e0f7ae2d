package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// Request модель запроса на получение свободных слотов ментора
type Request struct {
	MentorID        uuid.UUID
	StartDate       time.Time // первый календарный день, берутся только год, месяц и день
	EndDate         time.Time // последний календарный день (включительно)
	DurationMinutes int       // 0 = предпочтительная длительность ментора
}

// Response модель ответа со списком свободных слотов в хронологическом порядке
type Response struct {
	MentorID        uuid.UUID
	Timezone        string
	DurationMinutes int
	Slots           []domain.Slot
}
