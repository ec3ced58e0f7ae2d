package domain

import (
	"fmt"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// FeedbackOutcome итог сессии с точки зрения ментора
type FeedbackOutcome string

const (
	OutcomeGoalsMet      FeedbackOutcome = "goals_met"
	OutcomeProgress      FeedbackOutcome = "progress"
	OutcomeNoProgress    FeedbackOutcome = "no_progress"
	OutcomeNeedsFollowUp FeedbackOutcome = "needs_follow_up"
)

// FeedbackSide which participant submitted the feedback
type FeedbackSide string

const (
	SideMentor FeedbackSide = "mentor"
	SideMentee FeedbackSide = "mentee"
)

// MentorFeedback отзыв ментора о менти
type MentorFeedback struct {
	Rating      int             `json:"rating"`
	Preparation int             `json:"preparation,omitempty"`
	Engagement  int             `json:"engagement,omitempty"`
	Outcome     FeedbackOutcome `json:"outcome,omitempty"`
	NextSteps   string          `json:"nextSteps,omitempty"`
	Comment     string          `json:"comment,omitempty"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// MenteeFeedback отзыв менти о менторе
type MenteeFeedback struct {
	Rating         int       `json:"rating"`
	Helpfulness    int       `json:"helpfulness,omitempty"`
	Knowledge      int       `json:"knowledge,omitempty"`
	WouldRecommend bool      `json:"wouldRecommend"`
	Comment        string    `json:"comment,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

func (f *MentorFeedback) Validate() error {
	if err := validateRating("rating", f.Rating, true); err != nil {
		return err
	}
	if err := validateRating("preparation", f.Preparation, false); err != nil {
		return err
	}
	if err := validateRating("engagement", f.Engagement, false); err != nil {
		return err
	}
	switch f.Outcome {
	case "", OutcomeGoalsMet, OutcomeProgress, OutcomeNoProgress, OutcomeNeedsFollowUp:
	default:
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, f.Outcome)
	}
	if len(f.NextSteps) > MaxNotesLength || len(f.Comment) > MaxNotesLength {
		return fmt.Errorf("%w: feedback text is too long", ErrInvalidInput)
	}
	return nil
}

func (f *MenteeFeedback) Validate() error {
	if err := validateRating("rating", f.Rating, true); err != nil {
		return err
	}
	if err := validateRating("helpfulness", f.Helpfulness, false); err != nil {
		return err
	}
	if err := validateRating("knowledge", f.Knowledge, false); err != nil {
		return err
	}
	if len(f.Comment) > MaxNotesLength {
		return fmt.Errorf("%w: feedback text is too long", ErrInvalidInput)
	}
	return nil
}

// CombinedRating среднее двух общих оценок, подоценки не учитываются
func CombinedRating(mentorRating, menteeRating int) float64 {
	return float64(mentorRating+menteeRating) / 2
}

// validateRating 0 допустим только для необязательных подоценок
func validateRating(field string, value int, required bool) error {
	if value == 0 && !required {
		return nil
	}
	if value < MinRating || value > MaxRating {
		return fmt.Errorf("%w: %s=%d", ErrInvalidRating, field, value)
	}
	return nil
}
