package sessions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/session"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service сервис чтения сессий и показателей менторов
type Service struct {
	sessionRepo  SessionRepository
	statsRepo    StatsRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	sessionRepo SessionRepository,
	statsRepo StatsRepository,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo:  sessionRepo,
		statsRepo:    statsRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (s *Service) SetTimeProvider(tp TimeProvider) {
	s.timeProvider = tp
}

// GetByID получает сессию по ID.
// Видеть сессию могут только ее участники.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.SessionResponse, error) {
	s.logger.Info("GetByID: fetching session id=%s for user=%s", id, userID)

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("GetByID: session id=%s not found", id)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("GetByID: repository error for session id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !session.Involves(userID) {
		s.logger.Warn("GetByID: access denied for user=%s to session id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched session id=%s", id)
	return models.FromDomainSession(session), nil
}

// ListUserSessions сессии, где пользователь ментор или менти, новые первыми.
// Опционально фильтрует по статусу и периоду.
func (s *Service) ListUserSessions(ctx context.Context, req *models.ListUserSessionsRequest) (*models.SessionListResponse, error) {
	s.logger.Info("ListUserSessions: fetching sessions for user=%s, status=%v", req.UserID, req.Status)

	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if req.RequesterID != req.UserID {
		s.logger.Warn("ListUserSessions: user=%s requested sessions of user=%s", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListUserSessions: invalid filter for user=%s: %v", req.UserID, err)
		return nil, err
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}

	sessions, err := s.sessionRepo.ListByUser(ctx, filter)
	if err != nil {
		s.logger.Error("ListUserSessions: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListUserSessions - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListUserSessions: successfully fetched %d sessions for user=%s", len(sessions), req.UserID)
	return models.FromDomainSessionList(sessions), nil
}

// MentorMetrics показатели ментора за последние periodDays дней (0 = значение по умолчанию).
// Учитываются сессии, начавшиеся в [now - periodDays, now). Только чтение.
func (s *Service) MentorMetrics(ctx context.Context, mentorID uuid.UUID, periodDays int) (*models.MentorMetricsResponse, error) {
	s.logger.Info("MentorMetrics: mentor=%s, periodDays=%d", mentorID, periodDays)

	if mentorID == uuid.Nil {
		return nil, fmt.Errorf("%w: mentor id is required", ErrInvalidInput)
	}
	if periodDays == 0 {
		periodDays = domain.DefaultMetricsPeriodDays
	}
	if periodDays < 0 || periodDays > domain.MaxMetricsPeriodDays {
		s.logger.Warn("MentorMetrics: invalid period %d days", periodDays)
		return nil, fmt.Errorf("%w: periodDays must be between 1 and %d", ErrInvalidInput, domain.MaxMetricsPeriodDays)
	}

	now := s.timeProvider.Now().UTC()
	from := now.AddDate(0, 0, -periodDays)

	sessions, err := s.sessionRepo.ListByMentor(ctx, mentorID, from, now)
	if err != nil {
		s.logger.Error("MentorMetrics: failed to list sessions for mentor=%s: %v", mentorID, err)
		return nil, fmt.Errorf("%w: MentorMetrics - repository error: %v", ErrInternal, err)
	}

	stats, err := s.statsRepo.GetStats(ctx, mentorID)
	if err != nil {
		s.logger.Error("MentorMetrics: failed to get stats for mentor=%s: %v", mentorID, err)
		return nil, fmt.Errorf("%w: MentorMetrics - stats error: %v", ErrInternal, err)
	}

	resp := aggregate(sessions)
	resp.MentorID = mentorID
	resp.PeriodDays = periodDays
	resp.PeriodStart = from.Format(time.RFC3339)
	resp.PeriodEnd = now.Format(time.RFC3339)
	resp.LifetimeCompletedSessions = stats.CompletedSessions
	resp.LifetimeHours = round2(stats.TotalHours)

	s.logger.Info("MentorMetrics: mentor=%s, sessions=%d, completed=%d, mentees=%d",
		mentorID, resp.TotalSessions, resp.CompletedSessions, resp.UniqueMentees)
	return resp, nil
}

// aggregate считает показатели по сессиям одного ментора
func aggregate(sessions []*domain.Session) *models.MentorMetricsResponse {
	resp := &models.MentorMetricsResponse{
		TotalSessions: len(sessions),
		Mentees:       []models.MenteeReach{},
	}

	var (
		minutes         int
		mentorRatingSum int
		mentorRatings   int
		sessionRateSum  float64
		reach           = make(map[uuid.UUID]*models.MenteeReach)
	)

	for _, session := range sessions {
		r, ok := reach[session.MenteeID]
		if !ok {
			r = &models.MenteeReach{MenteeID: session.MenteeID}
			reach[session.MenteeID] = r
		}
		r.Sessions++

		switch {
		case session.Status == domain.StatusCompleted:
			resp.CompletedSessions++
			r.CompletedSessions++
			if session.ActualDurationMinutes != nil {
				minutes += *session.ActualDurationMinutes
			} else {
				minutes += session.DurationMinutes
			}
		case session.Status == domain.StatusCancelled:
			resp.CancelledSessions++
		case session.Status == domain.StatusNoShow:
			resp.NoShowSessions++
		case session.IsActive():
			resp.PendingSessions++
		}

		if session.MenteeFeedback != nil {
			mentorRatingSum += session.MenteeFeedback.Rating
			mentorRatings++
		}
		if session.FeedbackComplete && session.AvgRating != nil {
			sessionRateSum += *session.AvgRating
			resp.RatedSessions++
		}
	}

	resp.TotalHours = round2(float64(minutes) / 60)
	if resolved := resp.CompletedSessions + resp.CancelledSessions + resp.NoShowSessions; resolved > 0 {
		resp.CompletionRate = round2(float64(resp.CompletedSessions) / float64(resolved))
	}
	if mentorRatings > 0 {
		avg := round2(float64(mentorRatingSum) / float64(mentorRatings))
		resp.AvgMentorRating = &avg
	}
	if resp.RatedSessions > 0 {
		avg := round2(sessionRateSum / float64(resp.RatedSessions))
		resp.AvgSessionRating = &avg
	}

	for _, r := range reach {
		resp.Mentees = append(resp.Mentees, *r)
	}
	sort.Slice(resp.Mentees, func(i, j int) bool {
		if resp.Mentees[i].Sessions != resp.Mentees[j].Sessions {
			return resp.Mentees[i].Sessions > resp.Mentees[j].Sessions
		}
		return resp.Mentees[i].MenteeID.String() < resp.Mentees[j].MenteeID.String()
	})
	resp.UniqueMentees = len(resp.Mentees)

	return resp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
