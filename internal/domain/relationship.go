package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RelationshipStatus статус связи ментор-менти
type RelationshipStatus string

const (
	RelationshipRequested RelationshipStatus = "requested"
	RelationshipActive    RelationshipStatus = "active"
	RelationshipPaused    RelationshipStatus = "paused"
	RelationshipCompleted RelationshipStatus = "completed"
	RelationshipCancelled RelationshipStatus = "cancelled"
	RelationshipExpired   RelationshipStatus = "expired"
)

var relationshipTransitions = map[RelationshipStatus][]RelationshipStatus{
	RelationshipRequested: {RelationshipActive, RelationshipCancelled, RelationshipExpired},
	RelationshipActive:    {RelationshipPaused, RelationshipCompleted, RelationshipCancelled},
	RelationshipPaused:    {RelationshipActive, RelationshipCompleted, RelationshipCancelled},
}

// OpenRelationshipStatuses статусы, при которых пара не может создать вторую связь
var OpenRelationshipStatuses = []RelationshipStatus{
	RelationshipRequested,
	RelationshipActive,
	RelationshipPaused,
}

func ParseRelationshipStatus(s string) (RelationshipStatus, error) {
	status := RelationshipStatus(s)
	switch status {
	case RelationshipRequested, RelationshipActive, RelationshipPaused,
		RelationshipCompleted, RelationshipCancelled, RelationshipExpired:
		return status, nil
	}
	return "", fmt.Errorf("%w: unknown relationship status %q", ErrInvalidInput, s)
}

// Relationship pairs one mentor with one mentee
type Relationship struct {
	ID                       uuid.UUID
	MentorID                 uuid.UUID
	MenteeID                 uuid.UUID
	Status                   RelationshipStatus
	Goals                    []string
	Frequency                string
	PreferredDurationMinutes int
	PreferredFormat          string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (r *Relationship) IsActive() bool {
	return r.Status == RelationshipActive
}

// ChangeStatus применяет переход связи. При ошибке связь не меняется.
func (r *Relationship) ChangeStatus(to RelationshipStatus, at time.Time) error {
	for _, allowed := range relationshipTransitions[r.Status] {
		if allowed == to {
			r.Status = to
			r.UpdatedAt = at.UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidRelationshipTransition, r.Status, to)
}

func (r *Relationship) Clone() *Relationship {
	c := *r
	c.Goals = append([]string(nil), r.Goals...)
	return &c
}
