package reschedule_session

import (
	"time"

	"github.com/google/uuid"

	sessionsModels "github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
	rescheduleSession "github.com/m04kA/SMC-MentorshipService/internal/usecase/reschedule_session"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	NewStart string `json:"newStart"` // RFC3339
	Reason   string `json:"reason,omitempty"`
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	Session      *sessionsModels.SessionResponse `json:"session"`
	PreviousTime string                          `json:"previousTime"`
}

func (r *RescheduleRequest) ToUseCaseRequest(sessionID, actorID uuid.UUID) (*rescheduleSession.Request, error) {
	newStart, err := time.Parse(time.RFC3339, r.NewStart)
	if err != nil {
		return nil, err
	}
	return &rescheduleSession.Request{
		SessionID: sessionID,
		NewStart:  newStart,
		Reason:    r.Reason,
		ActorID:   actorID,
	}, nil
}

func FromUseCaseResponse(resp *rescheduleSession.Response) *RescheduleResponse {
	return &RescheduleResponse{
		Session:      sessionsModels.FromDomainSession(resp.Session),
		PreviousTime: resp.PreviousTime.UTC().Format(time.RFC3339),
	}
}
