package update_session_status

import (
	"github.com/google/uuid"

	sessionsModels "github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
	updateStatus "github.com/m04kA/SMC-MentorshipService/internal/usecase/update_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
	Reason string `json:"reason,omitempty"` // причина отмены
}

// UpdateStatusResponse HTTP response model
type UpdateStatusResponse struct {
	Session        *sessionsModels.SessionResponse `json:"session"`
	PreviousStatus string                          `json:"previousStatus"`
}

func (r *UpdateStatusRequest) ToUseCaseRequest(sessionID, actorID uuid.UUID) *updateStatus.Request {
	return &updateStatus.Request{
		SessionID: sessionID,
		Status:    r.Status,
		ActorID:   actorID,
		Notes:     r.Notes,
		Reason:    r.Reason,
	}
}

func FromUseCaseResponse(resp *updateStatus.Response) *UpdateStatusResponse {
	return &UpdateStatusResponse{
		Session:        sessionsModels.FromDomainSession(resp.Session),
		PreviousStatus: resp.PreviousStatus.String(),
	}
}
