package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

// Request модели

// UpdateAvailabilityRequest новая версия расписания ментора.
// Version должна совпадать с текущей версией профиля (0 для первого сохранения).
type UpdateAvailabilityRequest struct {
	MentorID                 uuid.UUID             `json:"mentorId"`
	ActorID                  uuid.UUID             `json:"actorId"`
	Weekly                   domain.WeeklySchedule `json:"weekly"`
	Timezone                 string                `json:"timezone"`
	BlockedDates             []string              `json:"blockedDates"`
	MaxSessionsPerDay        int                   `json:"maxSessionsPerDay"`
	MaxSessionsPerWeek       int                   `json:"maxSessionsPerWeek"`
	PreferredDurationMinutes int                   `json:"preferredDurationMinutes"`
	Version                  int                   `json:"version"`
}

// ToDomainProfile конвертирует request в профиль
func (r *UpdateAvailabilityRequest) ToDomainProfile() *domain.MentorProfile {
	tz := r.Timezone
	if tz == "" {
		tz = "UTC"
	}
	return &domain.MentorProfile{
		MentorID:                 r.MentorID,
		Weekly:                   r.Weekly,
		Timezone:                 tz,
		BlockedDates:             append([]string(nil), r.BlockedDates...),
		MaxSessionsPerDay:        r.MaxSessionsPerDay,
		MaxSessionsPerWeek:       r.MaxSessionsPerWeek,
		PreferredDurationMinutes: r.PreferredDurationMinutes,
		Version:                  r.Version,
	}
}

// CreateRelationshipRequest запрос на менторство
type CreateRelationshipRequest struct {
	ActorID                  uuid.UUID `json:"actorId"`
	MentorID                 uuid.UUID `json:"mentorId"`
	MenteeID                 uuid.UUID `json:"menteeId"`
	Goals                    []string  `json:"goals,omitempty"`
	Frequency                string    `json:"frequency,omitempty"`
	PreferredDurationMinutes int       `json:"preferredDurationMinutes,omitempty"`
	PreferredFormat          string    `json:"preferredFormat,omitempty"`
}

// ChangeRelationshipStatusRequest смена статуса связи
type ChangeRelationshipStatusRequest struct {
	RelationshipID uuid.UUID `json:"relationshipId"`
	ActorID        uuid.UUID `json:"actorId"`
	Status         string    `json:"status"`
}

// Response модели

// AvailabilityResponse текущая версия расписания ментора
type AvailabilityResponse struct {
	MentorID                 uuid.UUID             `json:"mentorId"`
	Weekly                   domain.WeeklySchedule `json:"weekly"`
	Timezone                 string                `json:"timezone"`
	BlockedDates             []string              `json:"blockedDates"`
	MaxSessionsPerDay        int                   `json:"maxSessionsPerDay"`
	MaxSessionsPerWeek       int                   `json:"maxSessionsPerWeek"`
	PreferredDurationMinutes int                   `json:"preferredDurationMinutes"`
	Version                  int                   `json:"version"`
	UpdatedAt                string                `json:"updatedAt"`
}

// RelationshipResponse данные связи
type RelationshipResponse struct {
	ID                       uuid.UUID `json:"id"`
	MentorID                 uuid.UUID `json:"mentorId"`
	MenteeID                 uuid.UUID `json:"menteeId"`
	Status                   string    `json:"status"`
	Goals                    []string  `json:"goals"`
	Frequency                string    `json:"frequency,omitempty"`
	PreferredDurationMinutes int       `json:"preferredDurationMinutes,omitempty"`
	PreferredFormat          string    `json:"preferredFormat,omitempty"`
	CreatedAt                string    `json:"createdAt"`
	UpdatedAt                string    `json:"updatedAt"`
}

// Конвертеры

func FromDomainProfile(p *domain.MentorProfile) *AvailabilityResponse {
	blocked := p.BlockedDates
	if blocked == nil {
		blocked = []string{}
	}
	return &AvailabilityResponse{
		MentorID:                 p.MentorID,
		Weekly:                   p.Weekly,
		Timezone:                 p.Timezone,
		BlockedDates:             blocked,
		MaxSessionsPerDay:        p.MaxSessionsPerDay,
		MaxSessionsPerWeek:       p.MaxSessionsPerWeek,
		PreferredDurationMinutes: p.PreferredDurationMinutes,
		Version:                  p.Version,
		UpdatedAt:                p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func FromDomainRelationship(r *domain.Relationship) *RelationshipResponse {
	goals := r.Goals
	if goals == nil {
		goals = []string{}
	}
	return &RelationshipResponse{
		ID:                       r.ID,
		MentorID:                 r.MentorID,
		MenteeID:                 r.MenteeID,
		Status:                   string(r.Status),
		Goals:                    goals,
		Frequency:                r.Frequency,
		PreferredDurationMinutes: r.PreferredDurationMinutes,
		PreferredFormat:          r.PreferredFormat,
		CreatedAt:                r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:                r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
