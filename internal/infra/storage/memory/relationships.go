package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	relationshipRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/relationship"
)

// RelationshipRepository связи ментор-менти в памяти
type RelationshipRepository struct {
	store *Store
}

func (r *RelationshipRepository) Create(ctx context.Context, rel *domain.Relationship) (*domain.Relationship, error) {
	defer r.store.lock(ctx)()

	for _, existing := range r.store.relationships {
		if existing.MentorID == rel.MentorID && existing.MenteeID == rel.MenteeID && isOpen(existing.Status) {
			return nil, relationshipRepo.ErrAlreadyExists
		}
	}

	now := r.store.now().UTC()
	rel.CreatedAt = now
	rel.UpdatedAt = now
	r.store.relationships[rel.ID] = rel.Clone()
	return rel, nil
}

func (r *RelationshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Relationship, error) {
	defer r.store.lock(ctx)()

	rel, ok := r.store.relationships[id]
	if !ok {
		return nil, relationshipRepo.ErrRelationshipNotFound
	}
	return rel.Clone(), nil
}

func (r *RelationshipRepository) FindActive(ctx context.Context, mentorID, menteeID uuid.UUID) (*domain.Relationship, error) {
	defer r.store.lock(ctx)()

	for _, rel := range r.store.relationships {
		if rel.MentorID == mentorID && rel.MenteeID == menteeID && rel.IsActive() {
			return rel.Clone(), nil
		}
	}
	return nil, relationshipRepo.ErrRelationshipNotFound
}

func (r *RelationshipRepository) UpdateStatus(ctx context.Context, rel *domain.Relationship, expected domain.RelationshipStatus) error {
	defer r.store.lock(ctx)()

	cur, ok := r.store.relationships[rel.ID]
	if !ok || cur.Status != expected {
		return relationshipRepo.ErrConcurrentUpdate
	}
	next := cur.Clone()
	next.Status = rel.Status
	next.UpdatedAt = r.store.now().UTC()
	r.store.relationships[rel.ID] = next
	rel.UpdatedAt = next.UpdatedAt
	return nil
}

func isOpen(status domain.RelationshipStatus) bool {
	for _, s := range domain.OpenRelationshipStatuses {
		if s == status {
			return true
		}
	}
	return false
}
