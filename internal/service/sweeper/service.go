package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	sessionRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/session"
)

// DefaultBatchSize сколько кандидатов обрабатывается за один проход
const DefaultBatchSize = 500

const (
	SweepNoShow           = "no_show"
	SweepFeedbackReminder = "feedback_reminder"
)

// Результаты обработки одного кандидата
const (
	resultProcessed = "processed"
	resultSkipped   = "skipped"
	resultFailed    = "failed"
)

// SweepResult итог одного прохода
type SweepResult struct {
	Scanned   int `json:"scanned"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Service периодическое обслуживание сессий.
// Ошибка одного кандидата логируется и не прерывает проход.
type Service struct {
	sessionRepo  SessionRepository
	dispatcher   EffectDispatcher
	metrics      Metrics
	rules        domain.SchedulingRules
	batchSize    int
	timeProvider TimeProvider
	logger       Logger
}

func NewService(
	sessionRepo SessionRepository,
	dispatcher EffectDispatcher,
	metrics Metrics,
	rules domain.SchedulingRules,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo:  sessionRepo,
		dispatcher:   dispatcher,
		metrics:      metrics,
		rules:        rules,
		batchSize:    DefaultBatchSize,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (s *Service) SetTimeProvider(tp TimeProvider) {
	s.timeProvider = tp
}

// SetBatchSize меняет размер прохода, n <= 0 игнорируется
func (s *Service) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// CleanupExpiredSessions переводит в NO_SHOW сессии SCHEDULED/RESCHEDULED,
// начало которых раньше now - NoShowAfter. Повторный вызов не трогает уже обработанные сессии.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (*SweepResult, error) {
	now := s.timeProvider.Now()
	before := now.Add(-s.rules.NoShowAfter)

	candidates, err := s.sessionRepo.ListExpired(ctx, domain.ExpirableStatuses, before, s.batchSize)
	if err != nil {
		s.logger.Error("CleanupExpiredSessions: failed to list expired sessions: %v", err)
		return nil, fmt.Errorf("%w: CleanupExpiredSessions - repository error: %v", ErrInternal, err)
	}

	result := &SweepResult{Scanned: len(candidates)}
	for _, session := range candidates {
		outcome := s.expire(ctx, session, now)
		s.metrics.IncSweepItem(SweepNoShow, outcome)
		switch outcome {
		case resultProcessed:
			result.Processed++
		case resultSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	s.logger.Info("CleanupExpiredSessions: scanned=%d, no_show=%d, skipped=%d, failed=%d",
		result.Scanned, result.Processed, result.Skipped, result.Failed)
	return result, nil
}

func (s *Service) expire(ctx context.Context, session *domain.Session, now time.Time) string {
	previous := session.Status
	if err := session.MarkNoShow(now, "no status change within the no-show window"); err != nil {
		s.logger.Warn("CleanupExpiredSessions: session=%s skipped: %v", session.ID, err)
		return resultSkipped
	}

	if err := s.sessionRepo.Update(ctx, session, previous); err != nil {
		if errors.Is(err, sessionRepo.ErrConcurrentUpdate) {
			s.logger.Info("CleanupExpiredSessions: session=%s changed concurrently, skipped", session.ID)
			return resultSkipped
		}
		s.logger.Error("CleanupExpiredSessions: failed to update session=%s: %v", session.ID, err)
		return resultFailed
	}

	s.metrics.IncTransition(previous.String(), session.Status.String())
	s.logger.Info("CleanupExpiredSessions: session=%s %s -> %s", session.ID, previous, session.Status)

	data := map[string]interface{}{
		"sessionId":   session.ID.String(),
		"from":        previous.String(),
		"to":          session.Status.String(),
		"scheduledAt": session.ScheduledAt.Format(time.RFC3339),
	}
	batch := effects.NotifyParties(
		session.Participants(),
		domain.NotificationSessionNoShow,
		"Session marked as no-show",
		fmt.Sprintf("Session %q was not held and is marked as no-show", session.Title),
		data,
	)
	batch = append(batch, effects.ForCancelledSession(session)...)
	batch = append(batch, effects.RecordAudit{Entry: domain.AuditEntry{
		UserID:      uuid.Nil,
		Action:      domain.AuditSessionNoShow,
		Description: fmt.Sprintf("session %s: %s -> %s by expiry sweep", session.ID, previous, session.Status),
		Metadata:    data,
	}})
	s.dispatcher.Dispatch(ctx, batch)

	return resultProcessed
}

// SendPendingFeedbackReminders напоминает об отзыве участникам сессий, завершенных
// раньше now - FeedbackReminderAfter. Не чаще FeedbackReminderInterval и не больше
// MaxFeedbackReminders раз на сессию (0 = без ограничения).
func (s *Service) SendPendingFeedbackReminders(ctx context.Context) (*SweepResult, error) {
	now := s.timeProvider.Now()

	candidates, err := s.sessionRepo.ListPendingFeedback(ctx, domain.PendingFeedbackFilter{
		CompletedBefore: now.Add(-s.rules.FeedbackReminderAfter),
		RemindedBefore:  now.Add(-s.rules.FeedbackReminderInterval),
		MaxReminders:    s.rules.MaxFeedbackReminders,
		Limit:           s.batchSize,
	})
	if err != nil {
		s.logger.Error("SendPendingFeedbackReminders: failed to list sessions: %v", err)
		return nil, fmt.Errorf("%w: SendPendingFeedbackReminders - repository error: %v", ErrInternal, err)
	}

	result := &SweepResult{Scanned: len(candidates)}
	for _, session := range candidates {
		outcome := s.remind(ctx, session, now)
		s.metrics.IncSweepItem(SweepFeedbackReminder, outcome)
		switch outcome {
		case resultProcessed:
			result.Processed++
		case resultSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	s.logger.Info("SendPendingFeedbackReminders: scanned=%d, reminded=%d, skipped=%d, failed=%d",
		result.Scanned, result.Processed, result.Skipped, result.Failed)
	return result, nil
}

func (s *Service) remind(ctx context.Context, session *domain.Session, now time.Time) string {
	missing := session.MissingFeedbackFrom()
	if len(missing) == 0 {
		return resultSkipped
	}

	// Сначала отметка, затем уведомление
	if err := s.sessionRepo.MarkFeedbackReminderSent(ctx, session.ID, now); err != nil {
		s.logger.Error("SendPendingFeedbackReminders: failed to mark session=%s: %v", session.ID, err)
		return resultFailed
	}

	s.dispatcher.Dispatch(ctx, effects.NotifyParties(
		missing,
		domain.NotificationFeedbackRequest,
		"Share your feedback",
		fmt.Sprintf("Please rate session %q", session.Title),
		map[string]interface{}{
			"sessionId": session.ID.String(),
			"reminder":  session.FeedbackRemindersSent + 1,
		},
	))

	s.logger.Info("SendPendingFeedbackReminders: session=%s reminded %d participant(s)", session.ID, len(missing))
	return resultProcessed
}
