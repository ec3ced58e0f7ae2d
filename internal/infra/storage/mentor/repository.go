package mentor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MentorshipService/pkg/psqlbuilder"
)

const tableProfiles = "mentor_profiles"

// Repository репозиторий профилей доступности менторов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория профилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetProfile получает профиль ментора
func (r *Repository) GetProfile(ctx context.Context, mentorID uuid.UUID) (*domain.MentorProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"mentor_id",
		"weekly_availability",
		"timezone",
		"blocked_dates",
		"max_sessions_per_day",
		"max_sessions_per_week",
		"preferred_duration_minutes",
		"version",
		"created_at",
		"updated_at",
	).
		From(tableProfiles).
		Where(squirrel.Eq{"mentor_id": mentorID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProfile - build select query: %v", ErrBuildQuery, err)
	}

	var (
		profile              domain.MentorProfile
		weekly               []byte
		blocked              pq.StringArray
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&profile.MentorID,
		&weekly,
		&profile.Timezone,
		&blocked,
		&profile.MaxSessionsPerDay,
		&profile.MaxSessionsPerWeek,
		&profile.PreferredDurationMinutes,
		&profile.Version,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfile - scan profile: %v", ErrScanRow, err)
	}

	if len(weekly) > 0 {
		if err := json.Unmarshal(weekly, &profile.Weekly); err != nil {
			return nil, fmt.Errorf("%w: GetProfile - decode weekly availability: %v", ErrScanRow, err)
		}
	}
	profile.BlockedDates = []string(blocked)
	profile.CreatedAt = createdAt.Time.UTC()
	profile.UpdatedAt = updatedAt.Time.UTC()

	return &profile, nil
}

// SaveProfile создает профиль или заменяет его новой версией.
// profile.Version должен быть равен версии, прочитанной вызывающим (0 для нового профиля).
func (r *Repository) SaveProfile(ctx context.Context, profile *domain.MentorProfile) (*domain.MentorProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weekly, err := json.Marshal(profile.Weekly)
	if err != nil {
		return nil, fmt.Errorf("%w: SaveProfile - encode weekly availability: %v", ErrBuildQuery, err)
	}
	blocked := profile.BlockedDates
	if blocked == nil {
		blocked = []string{}
	}

	query, args, err := psqlbuilder.Insert(tableProfiles).
		Columns(
			"mentor_id",
			"weekly_availability",
			"timezone",
			"blocked_dates",
			"max_sessions_per_day",
			"max_sessions_per_week",
			"preferred_duration_minutes",
			"version",
		).
		Values(
			profile.MentorID,
			weekly,
			profile.Timezone,
			pq.Array(blocked),
			profile.MaxSessionsPerDay,
			profile.MaxSessionsPerWeek,
			profile.PreferredDurationMinutes,
			1,
		).
		Suffix(`ON CONFLICT (mentor_id) DO UPDATE SET
			weekly_availability = EXCLUDED.weekly_availability,
			timezone = EXCLUDED.timezone,
			blocked_dates = EXCLUDED.blocked_dates,
			max_sessions_per_day = EXCLUDED.max_sessions_per_day,
			max_sessions_per_week = EXCLUDED.max_sessions_per_week,
			preferred_duration_minutes = EXCLUDED.preferred_duration_minutes,
			version = mentor_profiles.version + 1,
			updated_at = NOW()
		WHERE mentor_profiles.version = ?
		RETURNING version, created_at, updated_at`, profile.Version).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SaveProfile - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&profile.Version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SaveProfile - execute upsert: %v", ErrExecQuery, err)
	}

	profile.CreatedAt = createdAt.Time.UTC()
	profile.UpdatedAt = updatedAt.Time.UTC()

	return profile, nil
}
