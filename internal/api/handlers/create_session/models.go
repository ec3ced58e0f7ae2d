package create_session

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	sessionsModels "github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
	createSession "github.com/m04kA/SMC-MentorshipService/internal/usecase/create_session"
)

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	MentorID        uuid.UUID          `json:"mentorId"`
	MenteeID        uuid.UUID          `json:"menteeId"`
	RelationshipID  *uuid.UUID         `json:"relationshipId,omitempty"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Agenda          string             `json:"agenda,omitempty"`
	Objectives      []string           `json:"objectives,omitempty"`
	ScheduledAt     string             `json:"scheduledAt"` // RFC3339
	DurationMinutes int                `json:"durationMinutes,omitempty"`
	Recurrence      *RecurrenceRequest `json:"recurrence,omitempty"`
}

type RecurrenceRequest struct {
	Frequency string `json:"frequency"`
	Count     int    `json:"count"`
}

// SkippedResponse дата серии, которую не удалось забронировать
type SkippedResponse struct {
	ScheduledAt string `json:"scheduledAt"`
	Kind        string `json:"kind"`
	Reason      string `json:"reason"`
}

// CreateSessionResponse HTTP response model
type CreateSessionResponse struct {
	Session     *sessionsModels.SessionResponse `json:"session"`
	Occurrences []uuid.UUID                     `json:"occurrences"`
	Skipped     []SkippedResponse               `json:"skipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSessionRequest) ToUseCaseRequest(actorID uuid.UUID) (*createSession.Request, error) {
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	req := &createSession.Request{
		ActorID:         actorID,
		MentorID:        r.MentorID,
		MenteeID:        r.MenteeID,
		RelationshipID:  r.RelationshipID,
		Title:           r.Title,
		Description:     r.Description,
		Agenda:          r.Agenda,
		Objectives:      r.Objectives,
		ScheduledAt:     scheduledAt,
		DurationMinutes: r.DurationMinutes,
	}
	if r.Recurrence != nil {
		req.Recurrence = &domain.RecurrencePattern{
			Frequency: domain.RecurrenceFrequency(r.Recurrence.Frequency),
			Count:     r.Recurrence.Count,
		}
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSession.Response) *CreateSessionResponse {
	out := &CreateSessionResponse{
		Session:     sessionsModels.FromDomainSession(resp.Session),
		Occurrences: make([]uuid.UUID, 0, len(resp.Occurrences)),
		Skipped:     make([]SkippedResponse, 0, len(resp.Skipped)),
	}
	for _, s := range resp.Occurrences {
		out.Occurrences = append(out.Occurrences, s.ID)
	}
	for _, s := range resp.Skipped {
		out.Skipped = append(out.Skipped, SkippedResponse{
			ScheduledAt: s.ScheduledAt.UTC().Format(time.RFC3339),
			Kind:        domain.KindLabel(s.Reason),
			Reason:      s.Reason.Error(),
		})
	}
	return out
}
