package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MentorshipService/pkg/psqlbuilder"
)

// endsAtExpr конец интервала сессии в SQL
const endsAtExpr = "scheduled_at + duration_minutes * INTERVAL '1 minute'"

// Repository репозиторий для работы с сессиями менторства
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockParticipants берет транзакционные advisory-блокировки по id участников.
// Блокировки берутся в отсортированном порядке, чтобы параллельные транзакции не взаимоблокировались.
func (r *Repository) LockParticipants(ctx context.Context, userIDs ...uuid.UUID) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockParticipants - advisory lock requires a transaction", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	keys := make([]string, 0, len(userIDs))
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, id.String())
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
			return fmt.Errorf("%w: LockParticipants - lock %s: %v", ErrExecQuery, key, err)
		}
	}
	return nil
}

// Create создает новую сессию. ID выставляется вызывающим.
func (r *Repository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusHistory, err := json.Marshal(s.StatusHistory)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal status history: %v", ErrBuildQuery, err)
	}
	rescheduleHistory, err := json.Marshal(nonNilReschedules(s.RescheduleHistory))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal reschedule history: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert(tableSessions).
		Columns(
			"id",
			"mentor_id",
			"mentee_id",
			"relationship_id",
			"parent_session_id",
			"title",
			"description",
			"agenda",
			"objectives",
			"scheduled_at",
			"duration_minutes",
			"status",
			"status_history",
			"reschedule_history",
			"reminder_handles",
		).
		Values(
			s.ID,
			s.MentorID,
			s.MenteeID,
			uuidOrNil(s.RelationshipID),
			uuidOrNil(s.ParentSessionID),
			s.Title,
			s.Description,
			s.Agenda,
			pq.Array(nonNilStrings(s.Objectives)),
			s.ScheduledAt.UTC(),
			s.DurationMinutes,
			s.Status,
			statusHistory,
			rescheduleHistory,
			pq.Array(nonNilStrings(s.ReminderHandles)),
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time.UTC()
	s.UpdatedAt = updatedAt.Time.UTC()

	return s, nil
}

// GetByID получает сессию по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate получает сессию и блокирует строку до конца транзакции
func (r *Repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return r.get(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return s, nil
}

// Update сохраняет расписание, статус и журналы сессии.
// Запись проходит, только если статус в БД все еще равен expected.
func (r *Repository) Update(ctx context.Context, s *domain.Session, expected domain.SessionStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusHistory, err := json.Marshal(s.StatusHistory)
	if err != nil {
		return fmt.Errorf("%w: Update - marshal status history: %v", ErrBuildQuery, err)
	}
	rescheduleHistory, err := json.Marshal(nonNilReschedules(s.RescheduleHistory))
	if err != nil {
		return fmt.Errorf("%w: Update - marshal reschedule history: %v", ErrBuildQuery, err)
	}

	var actualDuration interface{}
	if s.ActualDurationMinutes != nil {
		actualDuration = *s.ActualDurationMinutes
	}
	var cancellationReason interface{}
	if s.CancellationReason != nil {
		cancellationReason = *s.CancellationReason
	}

	query, args, err := psqlbuilder.Update(tableSessions).
		Set("scheduled_at", s.ScheduledAt.UTC()).
		Set("duration_minutes", s.DurationMinutes).
		Set("status", s.Status).
		Set("started_at", timeOrNil(s.StartedAt)).
		Set("completed_at", timeOrNil(s.CompletedAt)).
		Set("actual_duration_minutes", actualDuration).
		Set("cancelled_at", timeOrNil(s.CancelledAt)).
		Set("cancellation_reason", cancellationReason).
		Set("cancelled_by", uuidOrNil(s.CancelledBy)).
		Set("original_scheduled_at", timeOrNil(s.OriginalStart)).
		Set("reschedule_count", s.RescheduleCount).
		Set("status_history", statusHistory).
		Set("reschedule_history", rescheduleHistory).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID, "status": expected}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrConcurrentUpdate
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	s.UpdatedAt = updatedAt.UTC()
	return nil
}

// ListActiveForParticipants активные сессии любого из участников, пересекающие [from, to)
func (r *Repository) ListActiveForParticipants(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Or{
			squirrel.Eq{"mentor_id": userIDs},
			squirrel.Eq{"mentee_id": userIDs},
		}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where(squirrel.Lt{"scheduled_at": to.UTC()}).
		Where(squirrel.Expr(endsAtExpr+" > ?", from.UTC())).
		OrderBy("scheduled_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForParticipants - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListActiveForParticipants", query, args)
}

// ListByMentor все сессии ментора, начинающиеся в [from, to)
func (r *Repository) ListByMentor(ctx context.Context, mentorID uuid.UUID, from, to time.Time) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Eq{"mentor_id": mentorID}).
		Where(squirrel.GtOrEq{"scheduled_at": from.UTC()}).
		Where(squirrel.Lt{"scheduled_at": to.UTC()}).
		OrderBy("scheduled_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByMentor - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListByMentor", query, args)
}

// ListByUser сессии, где пользователь ментор или менти
func (r *Repository) ListByUser(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Or{
			squirrel.Eq{"mentor_id": filter.UserID},
			squirrel.Eq{"mentee_id": filter.UserID},
		}).
		OrderBy("scheduled_at DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_at": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"scheduled_at": filter.To.UTC()})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListByUser", query, args)
}

// ListExpired сессии в статусах statuses, начавшиеся раньше before
func (r *Repository) ListExpired(ctx context.Context, statuses []domain.SessionStatus, before time.Time, limit int) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.Lt{"scheduled_at": before.UTC()}).
		OrderBy("scheduled_at ASC")
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListExpired", query, args)
}

// ListPendingFeedback завершенные сессии без одного из отзывов, которым пора напомнить.
// Лимит и интервал напоминаний входят в условие запроса.
func (r *Repository) ListPendingFeedback(ctx context.Context, filter domain.PendingFeedbackFilter) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Eq{"status": domain.StatusCompleted, "feedback_complete": false}).
		Where(squirrel.Lt{"completed_at": filter.CompletedBefore.UTC()}).
		Where(squirrel.Or{
			squirrel.Eq{"mentor_feedback_received": false},
			squirrel.Eq{"mentee_feedback_received": false},
		}).
		Where(squirrel.Or{
			squirrel.Eq{"last_feedback_reminder_at": nil},
			squirrel.LtOrEq{"last_feedback_reminder_at": filter.RemindedBefore.UTC()},
		}).
		OrderBy("completed_at ASC")
	if filter.MaxReminders > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"feedback_reminders_sent": filter.MaxReminders})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingFeedback - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListPendingFeedback", query, args)
}

// SaveMentorFeedback сохраняет отзыв ментора, если он еще не был сохранен и сессия завершена
func (r *Repository) SaveMentorFeedback(ctx context.Context, id uuid.UUID, fb domain.MentorFeedback) error {
	return r.saveFeedback(ctx, "SaveMentorFeedback", id, fb, fb.Rating, "mentor_feedback", "rating_by_mentor", "mentor_feedback_received")
}

// SaveMenteeFeedback сохраняет отзыв менти
func (r *Repository) SaveMenteeFeedback(ctx context.Context, id uuid.UUID, fb domain.MenteeFeedback) error {
	return r.saveFeedback(ctx, "SaveMenteeFeedback", id, fb, fb.Rating, "mentee_feedback", "rating_by_mentee", "mentee_feedback_received")
}

func (r *Repository) saveFeedback(ctx context.Context, op string, id uuid.UUID, fb interface{}, rating int, column, ratingColumn, flagColumn string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("%w: %s - marshal feedback: %v", ErrBuildQuery, op, err)
	}

	query, args, err := psqlbuilder.Update(tableSessions).
		Set(column, payload).
		Set(ratingColumn, rating).
		Set(flagColumn, true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusCompleted, flagColumn: false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrFeedbackAlreadySaved
	}

	return nil
}

// CompleteFeedback атомарно выставляет feedback_complete, когда оба отзыва получены.
// Возвращает completed=false, если флаг уже выставлен или отзывов еще не два.
func (r *Repository) CompleteFeedback(ctx context.Context, id uuid.UUID) (float64, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableSessions).
		Set("feedback_complete", true).
		Set("avg_rating", squirrel.Expr("(rating_by_mentor + rating_by_mentee) / 2.0")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":                       id,
			"mentor_feedback_received": true,
			"mentee_feedback_received": true,
			"feedback_complete":        false,
		}).
		Suffix("RETURNING avg_rating").
		ToSql()

	if err != nil {
		return 0, false, fmt.Errorf("%w: CompleteFeedback - build update query: %v", ErrBuildQuery, err)
	}

	var avg float64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&avg)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: CompleteFeedback - execute update: %v", ErrExecQuery, err)
	}

	return avg, true, nil
}

// SetCalendarEvent сохраняет ссылку на событие внешнего календаря
func (r *Repository) SetCalendarEvent(ctx context.Context, id uuid.UUID, ref domain.CalendarEventRef) error {
	return r.exec(ctx, "SetCalendarEvent", psqlbuilder.Update(tableSessions).
		Set("calendar_event_id", ref.EventID).
		Set("join_link", ref.JoinLink).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// SetReminderHandles заменяет хэндлы напоминаний
func (r *Repository) SetReminderHandles(ctx context.Context, id uuid.UUID, handles []string) error {
	return r.exec(ctx, "SetReminderHandles", psqlbuilder.Update(tableSessions).
		Set("reminder_handles", pq.Array(nonNilStrings(handles))).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// MarkFeedbackReminderSent увеличивает счетчик напоминаний об отзыве
func (r *Repository) MarkFeedbackReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.exec(ctx, "MarkFeedbackReminderSent", psqlbuilder.Update(tableSessions).
		Set("feedback_reminders_sent", squirrel.Expr("feedback_reminders_sent + 1")).
		Set("last_feedback_reminder_at", at.UTC()).
		Where(squirrel.Eq{"id": id}))
}

func (r *Repository) exec(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Session, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilReschedules(v []domain.RescheduleRecord) []domain.RescheduleRecord {
	if v == nil {
		return []domain.RescheduleRecord{}
	}
	return v
}
