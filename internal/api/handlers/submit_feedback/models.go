package submit_feedback

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	submitFeedback "github.com/m04kA/SMC-MentorshipService/internal/usecase/submit_feedback"
)

// FeedbackRequest HTTP request model. Поля ментора и менти заполняет соответствующая сторона.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`

	Preparation int    `json:"preparation,omitempty"`
	Engagement  int    `json:"engagement,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	NextSteps   string `json:"nextSteps,omitempty"`

	Helpfulness    int  `json:"helpfulness,omitempty"`
	Knowledge      int  `json:"knowledge,omitempty"`
	WouldRecommend bool `json:"wouldRecommend,omitempty"`
}

// FeedbackResponse HTTP response model
type FeedbackResponse struct {
	SessionID        uuid.UUID `json:"sessionId"`
	Side             string    `json:"side"`
	FeedbackComplete bool      `json:"feedbackComplete"`
	AvgRating        *float64  `json:"avgRating,omitempty"`
}

func (r *FeedbackRequest) ToUseCaseRequest(sessionID, actorID uuid.UUID) *submitFeedback.Request {
	return &submitFeedback.Request{
		SessionID:      sessionID,
		ActorID:        actorID,
		Rating:         r.Rating,
		Comment:        r.Comment,
		Preparation:    r.Preparation,
		Engagement:     r.Engagement,
		Outcome:        domain.FeedbackOutcome(r.Outcome),
		NextSteps:      r.NextSteps,
		Helpfulness:    r.Helpfulness,
		Knowledge:      r.Knowledge,
		WouldRecommend: r.WouldRecommend,
	}
}

func FromUseCaseResponse(resp *submitFeedback.Response) *FeedbackResponse {
	return &FeedbackResponse{
		SessionID:        resp.Session.ID,
		Side:             string(resp.Side),
		FeedbackComplete: resp.FeedbackComplete,
		AvgRating:        resp.AvgRating,
	}
}
