package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/session"
)

// SessionRepository сессии в памяти с семантикой session.Repository
type SessionRepository struct {
	store *Store
}

// LockParticipants no-op: транзакция хранилища уже исключительная
func (r *SessionRepository) LockParticipants(context.Context, ...uuid.UUID) error {
	return nil
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	defer r.store.lock(ctx)()

	if _, exists := r.store.sessions[s.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", sessionRepo.ErrExecQuery, s.ID)
	}
	now := r.store.now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.store.sessions[s.ID] = s.Clone()
	return s, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	defer r.store.lock(ctx)()

	s, ok := r.store.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return r.GetByID(ctx, id)
}

// Update переносит те же поля, что UPDATE в session.Repository
func (r *SessionRepository) Update(ctx context.Context, s *domain.Session, expected domain.SessionStatus) error {
	defer r.store.lock(ctx)()

	cur, ok := r.store.sessions[s.ID]
	if !ok || cur.Status != expected {
		return sessionRepo.ErrConcurrentUpdate
	}

	src := s.Clone()
	next := cur.Clone()
	next.ScheduledAt = src.ScheduledAt
	next.DurationMinutes = src.DurationMinutes
	next.Status = src.Status
	next.StartedAt = src.StartedAt
	next.CompletedAt = src.CompletedAt
	next.ActualDurationMinutes = src.ActualDurationMinutes
	next.CancelledAt = src.CancelledAt
	next.CancellationReason = src.CancellationReason
	next.CancelledBy = src.CancelledBy
	next.OriginalStart = src.OriginalStart
	next.RescheduleCount = src.RescheduleCount
	next.StatusHistory = src.StatusHistory
	next.RescheduleHistory = src.RescheduleHistory
	next.UpdatedAt = r.store.now().UTC()

	r.store.sessions[s.ID] = next
	s.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *SessionRepository) ListActiveForParticipants(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]*domain.Session, error) {
	window := domain.Interval{Start: from, End: to}
	return r.list(ctx, func(s *domain.Session) bool {
		if !s.IsActive() || !s.Interval().Overlaps(window) {
			return false
		}
		for _, id := range userIDs {
			if s.Involves(id) {
				return true
			}
		}
		return false
	}, ascByStart)
}

func (r *SessionRepository) ListByMentor(ctx context.Context, mentorID uuid.UUID, from, to time.Time) ([]*domain.Session, error) {
	return r.list(ctx, func(s *domain.Session) bool {
		return s.MentorID == mentorID && !s.ScheduledAt.Before(from) && s.ScheduledAt.Before(to)
	}, ascByStart)
}

func (r *SessionRepository) ListByUser(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	sessions, err := r.list(ctx, func(s *domain.Session) bool {
		if !s.Involves(filter.UserID) {
			return false
		}
		if filter.Status != nil && s.Status != *filter.Status {
			return false
		}
		if filter.From != nil && s.ScheduledAt.Before(*filter.From) {
			return false
		}
		if filter.To != nil && !s.ScheduledAt.Before(*filter.To) {
			return false
		}
		return true
	}, func(a, b *domain.Session) bool { return a.ScheduledAt.After(b.ScheduledAt) })
	if err != nil {
		return nil, err
	}
	if filter.Limit > 0 && len(sessions) > filter.Limit {
		sessions = sessions[:filter.Limit]
	}
	return sessions, nil
}

func (r *SessionRepository) ListExpired(ctx context.Context, statuses []domain.SessionStatus, before time.Time, limit int) ([]*domain.Session, error) {
	sessions, err := r.list(ctx, func(s *domain.Session) bool {
		if !s.ScheduledAt.Before(before) {
			return false
		}
		for _, status := range statuses {
			if s.Status == status {
				return true
			}
		}
		return false
	}, ascByStart)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (r *SessionRepository) ListPendingFeedback(ctx context.Context, filter domain.PendingFeedbackFilter) ([]*domain.Session, error) {
	sessions, err := r.list(ctx, filter.Matches, func(a, b *domain.Session) bool { return a.CompletedAt.Before(*b.CompletedAt) })
	if err != nil {
		return nil, err
	}
	if filter.Limit > 0 && len(sessions) > filter.Limit {
		sessions = sessions[:filter.Limit]
	}
	return sessions, nil
}

func (r *SessionRepository) SaveMentorFeedback(ctx context.Context, id uuid.UUID, fb domain.MentorFeedback) error {
	return r.modify(ctx, id, func(s *domain.Session) error {
		if s.Status != domain.StatusCompleted || s.MentorFeedbackReceived {
			return sessionRepo.ErrFeedbackAlreadySaved
		}
		s.MentorFeedback = &fb
		s.MentorFeedbackReceived = true
		return nil
	})
}

func (r *SessionRepository) SaveMenteeFeedback(ctx context.Context, id uuid.UUID, fb domain.MenteeFeedback) error {
	return r.modify(ctx, id, func(s *domain.Session) error {
		if s.Status != domain.StatusCompleted || s.MenteeFeedbackReceived {
			return sessionRepo.ErrFeedbackAlreadySaved
		}
		s.MenteeFeedback = &fb
		s.MenteeFeedbackReceived = true
		return nil
	})
}

func (r *SessionRepository) CompleteFeedback(ctx context.Context, id uuid.UUID) (float64, bool, error) {
	var (
		avg       float64
		completed bool
	)
	err := r.modify(ctx, id, func(s *domain.Session) error {
		if !s.MentorFeedbackReceived || !s.MenteeFeedbackReceived || s.FeedbackComplete {
			return errNoChange
		}
		avg = domain.CombinedRating(s.MentorFeedback.Rating, s.MenteeFeedback.Rating)
		s.AvgRating = &avg
		s.FeedbackComplete = true
		completed = true
		return nil
	})
	if errors.Is(err, errNoChange) {
		return 0, false, nil
	}
	return avg, completed, err
}

func (r *SessionRepository) SetCalendarEvent(ctx context.Context, id uuid.UUID, ref domain.CalendarEventRef) error {
	return r.modify(ctx, id, func(s *domain.Session) error {
		eventID, joinLink := ref.EventID, ref.JoinLink
		s.CalendarEventID = &eventID
		s.JoinLink = &joinLink
		return nil
	})
}

func (r *SessionRepository) SetReminderHandles(ctx context.Context, id uuid.UUID, handles []string) error {
	return r.modify(ctx, id, func(s *domain.Session) error {
		s.ReminderHandles = append([]string{}, handles...)
		return nil
	})
}

func (r *SessionRepository) MarkFeedbackReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.modify(ctx, id, func(s *domain.Session) error {
		at := at.UTC()
		s.FeedbackRemindersSent++
		s.LastFeedbackReminderAt = &at
		return nil
	})
}

var errNoChange = errors.New("memory: no change")

// modify меняет копию сессии и заменяет ее целиком
func (r *SessionRepository) modify(ctx context.Context, id uuid.UUID, fn func(s *domain.Session) error) error {
	defer r.store.lock(ctx)()

	cur, ok := r.store.sessions[id]
	if !ok {
		return sessionRepo.ErrSessionNotFound
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.UpdatedAt = r.store.now().UTC()
	r.store.sessions[id] = next
	return nil
}

func (r *SessionRepository) list(ctx context.Context, match func(*domain.Session) bool, less func(a, b *domain.Session) bool) ([]*domain.Session, error) {
	defer r.store.lock(ctx)()

	out := make([]*domain.Session, 0)
	for _, s := range r.store.sessions {
		if match(s) {
			out = append(out, s.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func ascByStart(a, b *domain.Session) bool {
	return a.ScheduledAt.Before(b.ScheduledAt)
}
