package relationship_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/storage/pgtest"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/storage/relationship"
)

func newRelationship(mentorID, menteeID uuid.UUID, status domain.RelationshipStatus) *domain.Relationship {
	return &domain.Relationship{
		ID:                       uuid.New(),
		MentorID:                 mentorID,
		MenteeID:                 menteeID,
		Status:                   status,
		Goals:                    []string{"system design"},
		Frequency:                "weekly",
		PreferredDurationMinutes: 60,
	}
}

func TestRepositoryOneOpenRelationshipPerPair(t *testing.T) {
	ctx := context.Background()
	repo := relationship.NewRepository(pgtest.Open(t))
	mentorID, menteeID := uuid.New(), uuid.New()
	pgtest.Cleanup(t, mentorID, menteeID)

	rel, err := repo.Create(ctx, newRelationship(mentorID, menteeID, domain.RelationshipRequested))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newRelationship(mentorID, menteeID, domain.RelationshipRequested))
	assert.ErrorIs(t, err, relationship.ErrAlreadyExists)

	stored, err := repo.GetByID(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"system design"}, stored.Goals)
	assert.Equal(t, domain.RelationshipRequested, stored.Status)

	_, err = repo.FindActive(ctx, mentorID, menteeID)
	assert.ErrorIs(t, err, relationship.ErrRelationshipNotFound)

	// закрытая связь не мешает новой
	rel.Status = domain.RelationshipCancelled
	require.NoError(t, repo.UpdateStatus(ctx, rel, domain.RelationshipRequested))

	next, err := repo.Create(ctx, newRelationship(mentorID, menteeID, domain.RelationshipActive))
	require.NoError(t, err)

	active, err := repo.FindActive(ctx, mentorID, menteeID)
	require.NoError(t, err)
	assert.Equal(t, next.ID, active.ID)
}

func TestRepositoryUpdateStatusRejectsStaleStatus(t *testing.T) {
	ctx := context.Background()
	repo := relationship.NewRepository(pgtest.Open(t))
	mentorID, menteeID := uuid.New(), uuid.New()
	pgtest.Cleanup(t, mentorID, menteeID)

	rel, err := repo.Create(ctx, newRelationship(mentorID, menteeID, domain.RelationshipActive))
	require.NoError(t, err)

	paused := rel.Clone()
	paused.Status = domain.RelationshipPaused
	require.NoError(t, repo.UpdateStatus(ctx, paused, domain.RelationshipActive))

	completed := rel.Clone()
	completed.Status = domain.RelationshipCompleted
	err = repo.UpdateStatus(ctx, completed, domain.RelationshipActive)
	assert.ErrorIs(t, err, relationship.ErrConcurrentUpdate)

	stored, err := repo.GetByID(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationshipPaused, stored.Status)
}

func TestRepositoryGetByIDUnknown(t *testing.T) {
	repo := relationship.NewRepository(pgtest.Open(t))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, relationship.ErrRelationshipNotFound)
}
