package relationship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MentorshipService/pkg/psqlbuilder"
)

const tableRelationships = "mentorship_relationships"

// sqlStateUniqueViolation нарушение частичного уникального индекса открытых связей
const sqlStateUniqueViolation = "23505"

var relationshipColumns = []string{
	"id",
	"mentor_id",
	"mentee_id",
	"status",
	"goals",
	"frequency",
	"preferred_duration_minutes",
	"preferred_format",
	"created_at",
	"updated_at",
}

// Repository репозиторий связей ментор-менти
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория связей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает связь. Для пары с уже открытой связью возвращает ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, rel *domain.Relationship) (*domain.Relationship, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	goals := rel.Goals
	if goals == nil {
		goals = []string{}
	}

	query, args, err := psqlbuilder.Insert(tableRelationships).
		Columns(
			"id",
			"mentor_id",
			"mentee_id",
			"status",
			"goals",
			"frequency",
			"preferred_duration_minutes",
			"preferred_format",
		).
		Values(
			rel.ID,
			rel.MentorID,
			rel.MenteeID,
			rel.Status,
			pq.Array(goals),
			rel.Frequency,
			rel.PreferredDurationMinutes,
			rel.PreferredFormat,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == sqlStateUniqueViolation {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rel.CreatedAt = createdAt.Time.UTC()
	rel.UpdatedAt = updatedAt.Time.UTC()

	return rel, nil
}

// GetByID получает связь по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Relationship, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// FindActive активная связь пары, если есть
func (r *Repository) FindActive(ctx context.Context, mentorID, menteeID uuid.UUID) (*domain.Relationship, error) {
	return r.getOne(ctx, "FindActive", squirrel.Eq{
		"mentor_id": mentorID,
		"mentee_id": menteeID,
		"status":    domain.RelationshipActive,
	})
}

// UpdateStatus меняет статус, если в БД он все еще равен expected
func (r *Repository) UpdateStatus(ctx context.Context, rel *domain.Relationship, expected domain.RelationshipStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableRelationships).
		Set("status", rel.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rel.ID, "status": expected}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrConcurrentUpdate
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Relationship, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(relationshipColumns...).
		From(tableRelationships).
		Where(where).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var (
		rel                  domain.Relationship
		goals                pq.StringArray
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rel.ID,
		&rel.MentorID,
		&rel.MenteeID,
		&rel.Status,
		&goals,
		&rel.Frequency,
		&rel.PreferredDurationMinutes,
		&rel.PreferredFormat,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRelationshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan relationship: %v", ErrScanRow, op, err)
	}

	rel.Goals = []string(goals)
	rel.CreatedAt = createdAt.Time.UTC()
	rel.UpdatedAt = updatedAt.Time.UTC()

	return &rel, nil
}
