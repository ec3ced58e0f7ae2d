package create_session

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/pkg/ptr"
)

// expandRecurrence создает встречи серии после базовой сессии.
// Дата, не прошедшая проверки, попадает в skipped и не повторяется.
func (uc *UseCase) expandRecurrence(ctx context.Context, base *domain.Session, profile *domain.MentorProfile, req *Request) ([]*domain.Session, []domain.SkippedOccurrence) {
	var (
		created []*domain.Session
		skipped []domain.SkippedOccurrence
	)

	for _, at := range req.Recurrence.Occurrences(base.ScheduledAt, profile.Location()) {
		occurrence := &domain.Session{
			ID:              uuid.New(),
			MentorID:        base.MentorID,
			MenteeID:        base.MenteeID,
			RelationshipID:  base.RelationshipID,
			ParentSessionID: ptr.Ptr(base.ID),
			Title:           base.Title,
			Description:     base.Description,
			Agenda:          base.Agenda,
			Objectives:      append([]string(nil), base.Objectives...),
			ScheduledAt:     at,
			DurationMinutes: base.DurationMinutes,
			Status:          domain.StatusScheduled,
		}

		var saved *domain.Session
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			var err error
			saved, err = uc.allocate(txCtx, profile, occurrence)
			return err
		})
		if err != nil {
			uc.logger.Warn("CreateSession: skipped occurrence %s of series %s: %v", at.Format(domain.DateFormat), base.ID, err)
			uc.metrics.IncSessionRejected(domain.KindLabel(err))
			skipped = append(skipped, domain.SkippedOccurrence{ScheduledAt: at, Reason: err})
			continue
		}

		uc.metrics.IncSessionCreated(sourceRecurrence)
		uc.dispatcher.Dispatch(ctx, createdEffects(saved, req.ActorID))
		created = append(created, saved)
	}

	uc.logger.Info("CreateSession: series %s created=%d skipped=%d", base.ID, len(created), len(skipped))
	return created, skipped
}
