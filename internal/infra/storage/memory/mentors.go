package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	mentorRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/mentor"
)

// MentorRepository профили доступности в памяти
type MentorRepository struct {
	store *Store
}

func (r *MentorRepository) GetProfile(ctx context.Context, mentorID uuid.UUID) (*domain.MentorProfile, error) {
	defer r.store.lock(ctx)()

	p, ok := r.store.profiles[mentorID]
	if !ok {
		return nil, mentorRepo.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

// SaveProfile вставляет профиль с версией 1 или заменяет существующий при совпадении версии
func (r *MentorRepository) SaveProfile(ctx context.Context, profile *domain.MentorProfile) (*domain.MentorProfile, error) {
	defer r.store.lock(ctx)()

	now := r.store.now().UTC()
	next := cloneProfile(profile)

	if cur, ok := r.store.profiles[profile.MentorID]; ok {
		if cur.Version != profile.Version {
			return nil, mentorRepo.ErrVersionConflict
		}
		next.Version = cur.Version + 1
		next.CreatedAt = cur.CreatedAt
	} else {
		next.Version = 1
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	r.store.profiles[profile.MentorID] = next

	profile.Version = next.Version
	profile.CreatedAt = next.CreatedAt
	profile.UpdatedAt = next.UpdatedAt
	return profile, nil
}

func cloneProfile(p *domain.MentorProfile) *domain.MentorProfile {
	c := *p
	c.BlockedDates = append([]string(nil), p.BlockedDates...)
	return &c
}

// StatsRepository счетчики участников в памяти
type StatsRepository struct {
	store *Store
}

func (r *StatsRepository) IncrementCompleted(ctx context.Context, userID uuid.UUID, hours float64) error {
	defer r.store.lock(ctx)()

	next := domain.ParticipantStats{UserID: userID}
	if cur, ok := r.store.stats[userID]; ok {
		next = *cur
	}
	next.CompletedSessions++
	next.TotalHours += hours
	next.UpdatedAt = r.store.now().UTC()
	r.store.stats[userID] = &next
	return nil
}

func (r *StatsRepository) GetStats(ctx context.Context, userID uuid.UUID) (*domain.ParticipantStats, error) {
	defer r.store.lock(ctx)()

	if cur, ok := r.store.stats[userID]; ok {
		c := *cur
		return &c, nil
	}
	return &domain.ParticipantStats{UserID: userID}, nil
}
