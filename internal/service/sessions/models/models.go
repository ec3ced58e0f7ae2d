package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// Request модели

// ListUserSessionsRequest запрос на получение сессий участника
type ListUserSessionsRequest struct {
	UserID      uuid.UUID  `json:"userId"`
	RequesterID uuid.UUID  `json:"requesterId"`
	Status      *string    `json:"status,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Limit       int        `json:"limit,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListUserSessionsRequest) ToDomainFilter() (domain.SessionFilter, error) {
	filter := domain.SessionFilter{
		UserID: r.UserID,
		From:   r.From,
		To:     r.To,
		Limit:  r.Limit,
	}
	if r.Status != nil {
		status, err := domain.ParseSessionStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// Response модели

// StatusChangeResponse запись журнала статусов
type StatusChangeResponse struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	At    string    `json:"at"`
	Actor uuid.UUID `json:"actor"`
	Notes string    `json:"notes,omitempty"`
}

// RescheduleResponse запись журнала переносов
type RescheduleResponse struct {
	PreviousTime string    `json:"previousTime"`
	NewTime      string    `json:"newTime"`
	Reason       string    `json:"reason,omitempty"`
	Actor        uuid.UUID `json:"actor"`
	At           string    `json:"at"`
}

// SessionResponse ответ с данными сессии
type SessionResponse struct {
	ID              uuid.UUID  `json:"id"`
	MentorID        uuid.UUID  `json:"mentorId"`
	MenteeID        uuid.UUID  `json:"menteeId"`
	RelationshipID  *uuid.UUID `json:"relationshipId,omitempty"`
	ParentSessionID *uuid.UUID `json:"parentSessionId,omitempty"`

	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Agenda      string   `json:"agenda,omitempty"`
	Objectives  []string `json:"objectives,omitempty"`

	ScheduledAt     string `json:"scheduledAt"` // RFC3339, UTC
	EndsAt          string `json:"endsAt"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	StartedAt             *string    `json:"startedAt,omitempty"`
	CompletedAt           *string    `json:"completedAt,omitempty"`
	ActualDurationMinutes *int       `json:"actualDurationMinutes,omitempty"`
	CancelledAt           *string    `json:"cancelledAt,omitempty"`
	CancellationReason    *string    `json:"cancellationReason,omitempty"`
	CancelledBy           *uuid.UUID `json:"cancelledBy,omitempty"`

	WasRescheduled  bool    `json:"wasRescheduled"`
	RescheduleCount int     `json:"rescheduleCount"`
	OriginalStart   *string `json:"originalStart,omitempty"`

	StatusHistory     []StatusChangeResponse `json:"statusHistory"`
	RescheduleHistory []RescheduleResponse   `json:"rescheduleHistory"`

	CalendarEventID *string `json:"calendarEventId,omitempty"`
	JoinLink        *string `json:"joinLink,omitempty"`

	MentorFeedback         *domain.MentorFeedback `json:"mentorFeedback,omitempty"`
	MenteeFeedback         *domain.MenteeFeedback `json:"menteeFeedback,omitempty"`
	MentorFeedbackReceived bool                   `json:"mentorFeedbackReceived"`
	MenteeFeedbackReceived bool                   `json:"menteeFeedbackReceived"`
	FeedbackComplete       bool                   `json:"feedbackComplete"`
	AvgRating              *float64               `json:"avgRating,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// SessionListResponse список сессий
type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int                `json:"total"`
}

// MenteeReach сколько сессий у ментора было с конкретным менти
type MenteeReach struct {
	MenteeID          uuid.UUID `json:"menteeId"`
	Sessions          int       `json:"sessions"`
	CompletedSessions int       `json:"completedSessions"`
}

// MentorMetricsResponse показатели ментора за период
type MentorMetricsResponse struct {
	MentorID    uuid.UUID `json:"mentorId"`
	PeriodDays  int       `json:"periodDays"`
	PeriodStart string    `json:"periodStart"`
	PeriodEnd   string    `json:"periodEnd"`

	TotalSessions     int     `json:"totalSessions"`
	CompletedSessions int     `json:"completedSessions"`
	CancelledSessions int     `json:"cancelledSessions"`
	NoShowSessions    int     `json:"noShowSessions"`
	PendingSessions   int     `json:"pendingSessions"` // активные сессии периода без итога
	CompletionRate    float64 `json:"completionRate"`
	TotalHours        float64 `json:"totalHours"`

	AvgMentorRating  *float64 `json:"avgMentorRating,omitempty"`  // оценки менти о менторе
	AvgSessionRating *float64 `json:"avgSessionRating,omitempty"` // средние оценки сессий с обоими отзывами
	RatedSessions    int      `json:"ratedSessions"`

	UniqueMentees int           `json:"uniqueMentees"`
	Mentees       []MenteeReach `json:"mentees"`

	LifetimeCompletedSessions int     `json:"lifetimeCompletedSessions"`
	LifetimeHours             float64 `json:"lifetimeHours"`
}

// Конвертеры

// FromDomainSession конвертирует доменную сессию в ответ
func FromDomainSession(s *domain.Session) *SessionResponse {
	if s == nil {
		return nil
	}

	resp := &SessionResponse{
		ID:                     s.ID,
		MentorID:               s.MentorID,
		MenteeID:               s.MenteeID,
		RelationshipID:         s.RelationshipID,
		ParentSessionID:        s.ParentSessionID,
		Title:                  s.Title,
		Description:            s.Description,
		Agenda:                 s.Agenda,
		Objectives:             s.Objectives,
		ScheduledAt:            formatTime(s.ScheduledAt),
		EndsAt:                 formatTime(s.EndsAt()),
		DurationMinutes:        s.DurationMinutes,
		Status:                 s.Status.String(),
		StartedAt:              formatTimePtr(s.StartedAt),
		CompletedAt:            formatTimePtr(s.CompletedAt),
		ActualDurationMinutes:  s.ActualDurationMinutes,
		CancelledAt:            formatTimePtr(s.CancelledAt),
		CancellationReason:     s.CancellationReason,
		CancelledBy:            s.CancelledBy,
		WasRescheduled:         s.WasRescheduled(),
		RescheduleCount:        s.RescheduleCount,
		OriginalStart:          formatTimePtr(s.OriginalStart),
		StatusHistory:          make([]StatusChangeResponse, 0, len(s.StatusHistory)),
		RescheduleHistory:      make([]RescheduleResponse, 0, len(s.RescheduleHistory)),
		CalendarEventID:        s.CalendarEventID,
		JoinLink:               s.JoinLink,
		MentorFeedback:         s.MentorFeedback,
		MenteeFeedback:         s.MenteeFeedback,
		MentorFeedbackReceived: s.MentorFeedbackReceived,
		MenteeFeedbackReceived: s.MenteeFeedbackReceived,
		FeedbackComplete:       s.FeedbackComplete,
		AvgRating:              s.AvgRating,
		CreatedAt:              formatTime(s.CreatedAt),
		UpdatedAt:              formatTime(s.UpdatedAt),
	}

	for _, change := range s.StatusHistory {
		resp.StatusHistory = append(resp.StatusHistory, StatusChangeResponse{
			From:  change.From.String(),
			To:    change.To.String(),
			At:    formatTime(change.At),
			Actor: change.Actor,
			Notes: change.Notes,
		})
	}
	for _, record := range s.RescheduleHistory {
		resp.RescheduleHistory = append(resp.RescheduleHistory, RescheduleResponse{
			PreviousTime: formatTime(record.PreviousTime),
			NewTime:      formatTime(record.NewTime),
			Reason:       record.Reason,
			Actor:        record.Actor,
			At:           formatTime(record.At),
		})
	}

	return resp
}

// FromDomainSessionList конвертирует список сессий
func FromDomainSessionList(sessions []*domain.Session) *SessionListResponse {
	resp := &SessionListResponse{
		Sessions: make([]*SessionResponse, 0, len(sessions)),
		Total:    len(sessions),
	}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, FromDomainSession(s))
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatTime(*t)
	return &v
}
