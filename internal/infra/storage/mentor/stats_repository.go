package mentor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MentorshipService/pkg/psqlbuilder"
)

const tableStats = "participant_stats"

// StatsRepository счетчики завершенных сессий участников
type StatsRepository struct {
	db DBExecutor
}

func NewStatsRepository(db DBExecutor) *StatsRepository {
	return &StatsRepository{db: db}
}

// IncrementCompleted добавляет одну завершенную сессию и часы участнику
func (r *StatsRepository) IncrementCompleted(ctx context.Context, userID uuid.UUID, hours float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableStats).
		Columns("user_id", "completed_sessions", "total_hours").
		Values(userID, 1, hours).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			completed_sessions = participant_stats.completed_sessions + 1,
			total_hours = participant_stats.total_hours + EXCLUDED.total_hours,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementCompleted - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: IncrementCompleted - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetStats счетчики участника; для пользователя без завершенных сессий возвращает нули
func (r *StatsRepository) GetStats(ctx context.Context, userID uuid.UUID) (*domain.ParticipantStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("user_id", "completed_sessions", "total_hours", "updated_at").
		From(tableStats).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - build select query: %v", ErrBuildQuery, err)
	}

	stats := domain.ParticipantStats{UserID: userID}
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.UserID,
		&stats.CompletedSessions,
		&stats.TotalHours,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - scan stats: %v", ErrScanRow, err)
	}

	stats.UpdatedAt = updatedAt.Time.UTC()
	return &stats, nil
}
