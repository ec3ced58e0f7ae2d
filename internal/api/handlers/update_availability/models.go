package update_availability

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability/models"
)

// UpdateAvailabilityRequest HTTP request model. Version текущая версия профиля, 0 для первого сохранения.
type UpdateAvailabilityRequest struct {
	Weekly                   domain.WeeklySchedule `json:"weekly"`
	Timezone                 string                `json:"timezone"`
	BlockedDates             []string              `json:"blockedDates"`
	MaxSessionsPerDay        int                   `json:"maxSessionsPerDay"`
	MaxSessionsPerWeek       int                   `json:"maxSessionsPerWeek"`
	PreferredDurationMinutes int                   `json:"preferredDurationMinutes"`
	Version                  int                   `json:"version"`
}

func (r *UpdateAvailabilityRequest) ToServiceRequest(mentorID, actorID uuid.UUID) *models.UpdateAvailabilityRequest {
	return &models.UpdateAvailabilityRequest{
		MentorID:                 mentorID,
		ActorID:                  actorID,
		Weekly:                   r.Weekly,
		Timezone:                 r.Timezone,
		BlockedDates:             r.BlockedDates,
		MaxSessionsPerDay:        r.MaxSessionsPerDay,
		MaxSessionsPerWeek:       r.MaxSessionsPerWeek,
		PreferredDurationMinutes: r.PreferredDurationMinutes,
		Version:                  r.Version,
	}
}
