package create_relationship

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/service/availability/models"
)

// CreateRelationshipRequest HTTP request model
type CreateRelationshipRequest struct {
	MentorID                 uuid.UUID `json:"mentorId"`
	MenteeID                 uuid.UUID `json:"menteeId"`
	Goals                    []string  `json:"goals,omitempty"`
	Frequency                string    `json:"frequency,omitempty"`
	PreferredDurationMinutes int       `json:"preferredDurationMinutes,omitempty"`
	PreferredFormat          string    `json:"preferredFormat,omitempty"`
}

func (r *CreateRelationshipRequest) ToServiceRequest(actorID uuid.UUID) *models.CreateRelationshipRequest {
	return &models.CreateRelationshipRequest{
		ActorID:                  actorID,
		MentorID:                 r.MentorID,
		MenteeID:                 r.MenteeID,
		Goals:                    r.Goals,
		Frequency:                r.Frequency,
		PreferredDurationMinutes: r.PreferredDurationMinutes,
		PreferredFormat:          r.PreferredFormat,
	}
}
