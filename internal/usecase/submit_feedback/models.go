package submit_feedback

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// Request отзыв участника. Сторона определяется по ActorID:
// ментор заполняет Preparation/Engagement/Outcome/NextSteps, менти Helpfulness/Knowledge/WouldRecommend.
type Request struct {
	SessionID uuid.UUID
	ActorID   uuid.UUID
	Rating    int
	Comment   string

	Preparation int
	Engagement  int
	Outcome     domain.FeedbackOutcome
	NextSteps   string

	Helpfulness    int
	Knowledge      int
	WouldRecommend bool
}

// Response состояние отзывов сессии после сохранения
type Response struct {
	Session          *domain.Session
	Side             domain.FeedbackSide
	FeedbackComplete bool
	AvgRating        *float64
}
