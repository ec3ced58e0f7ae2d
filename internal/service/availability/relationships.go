package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	relationshipRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/relationship"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability/models"
)

// RequestRelationship создает связь в статусе requested.
// Запрос может отправить любой из двух участников.
func (s *Service) RequestRelationship(ctx context.Context, req *models.CreateRelationshipRequest) (*models.RelationshipResponse, error) {
	s.logger.Info("RequestRelationship: mentor=%s, mentee=%s, actor=%s", req.MentorID, req.MenteeID, req.ActorID)

	// 1. Валидация
	if req.MentorID == uuid.Nil || req.MenteeID == uuid.Nil {
		return nil, fmt.Errorf("%w: mentor and mentee are required", domain.ErrInvalidInput)
	}
	if req.MentorID == req.MenteeID {
		return nil, fmt.Errorf("%w: mentor and mentee must differ", domain.ErrInvalidInput)
	}
	if len(req.Goals) > domain.MaxObjectives {
		return nil, fmt.Errorf("%w: too many goals", domain.ErrInvalidInput)
	}
	if req.PreferredDurationMinutes != 0 {
		if err := s.rules.ValidateDuration(req.PreferredDurationMinutes); err != nil {
			return nil, err
		}
	}
	if req.ActorID != req.MentorID && req.ActorID != req.MenteeID {
		s.logger.Warn("RequestRelationship: actor=%s is not a party", req.ActorID)
		return nil, ErrAccessDenied
	}

	// 2. Участники
	if err := s.checkMentor(ctx, req.MentorID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, req.MenteeID); err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			s.logger.Warn("RequestRelationship: mentee=%s not found", req.MenteeID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("RequestRelationship: failed to get mentee=%s: %v", req.MenteeID, err)
		return nil, fmt.Errorf("%w: RequestRelationship - user service error: %v", ErrInternal, err)
	}

	// 3. Сохранение
	rel, err := s.relationshipRepo.Create(ctx, &domain.Relationship{
		ID:                       uuid.New(),
		MentorID:                 req.MentorID,
		MenteeID:                 req.MenteeID,
		Status:                   domain.RelationshipRequested,
		Goals:                    append([]string(nil), req.Goals...),
		Frequency:                req.Frequency,
		PreferredDurationMinutes: req.PreferredDurationMinutes,
		PreferredFormat:          req.PreferredFormat,
	})
	if err != nil {
		if errors.Is(err, relationshipRepo.ErrAlreadyExists) {
			s.logger.Warn("RequestRelationship: mentor=%s and mentee=%s already have an open relationship", req.MentorID, req.MenteeID)
			return nil, ErrRelationshipExists
		}
		s.logger.Error("RequestRelationship: failed to create relationship: %v", err)
		return nil, fmt.Errorf("%w: RequestRelationship - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RequestRelationship: relationship=%s created", rel.ID)

	// 4. Уведомляем вторую сторону и пишем аудит
	counterpart := rel.MentorID
	if req.ActorID == rel.MentorID {
		counterpart = rel.MenteeID
	}
	batch := effects.NotifyParties([]uuid.UUID{counterpart}, domain.NotificationRelationship,
		"Mentorship request", "You have a new mentorship request",
		map[string]interface{}{"relationship_id": rel.ID.String(), "status": string(rel.Status)})
	batch = append(batch, relationshipAudit(rel, req.ActorID, domain.AuditRelationshipCreated, "", rel.Status))
	s.dispatcher.Dispatch(ctx, batch)

	return models.FromDomainRelationship(rel), nil
}

// ChangeRelationshipStatus одобрение, пауза, возобновление, завершение или отмена связи.
// Одобрить запрос может только ментор; uuid.Nil означает системного актора.
func (s *Service) ChangeRelationshipStatus(ctx context.Context, req *models.ChangeRelationshipStatusRequest) (*models.RelationshipResponse, error) {
	s.logger.Info("ChangeRelationshipStatus: relationship=%s, status=%s, actor=%s", req.RelationshipID, req.Status, req.ActorID)

	target, err := domain.ParseRelationshipStatus(req.Status)
	if err != nil {
		s.logger.Warn("ChangeRelationshipStatus: %v", err)
		return nil, err
	}

	rel, err := s.relationshipRepo.GetByID(ctx, req.RelationshipID)
	if err != nil {
		if errors.Is(err, relationshipRepo.ErrRelationshipNotFound) {
			s.logger.Warn("ChangeRelationshipStatus: relationship=%s not found", req.RelationshipID)
			return nil, ErrRelationshipNotFound
		}
		s.logger.Error("ChangeRelationshipStatus: failed to get relationship=%s: %v", req.RelationshipID, err)
		return nil, fmt.Errorf("%w: ChangeRelationshipStatus - repository error: %v", ErrInternal, err)
	}

	if req.ActorID != uuid.Nil {
		if req.ActorID != rel.MentorID && req.ActorID != rel.MenteeID {
			s.logger.Warn("ChangeRelationshipStatus: actor=%s is not a party of relationship=%s", req.ActorID, rel.ID)
			return nil, ErrAccessDenied
		}
		if rel.Status == domain.RelationshipRequested && target == domain.RelationshipActive && req.ActorID != rel.MentorID {
			s.logger.Warn("ChangeRelationshipStatus: only the mentor can approve relationship=%s", rel.ID)
			return nil, ErrAccessDenied
		}
	}

	previous := rel.Status
	if err := rel.ChangeStatus(target, s.timeProvider.Now()); err != nil {
		s.logger.Warn("ChangeRelationshipStatus: relationship=%s: %v", rel.ID, err)
		return nil, err
	}

	if err := s.relationshipRepo.UpdateStatus(ctx, rel, previous); err != nil {
		if errors.Is(err, relationshipRepo.ErrConcurrentUpdate) {
			s.logger.Warn("ChangeRelationshipStatus: relationship=%s changed concurrently", rel.ID)
			return nil, ErrConcurrentModification
		}
		s.logger.Error("ChangeRelationshipStatus: failed to update relationship=%s: %v", rel.ID, err)
		return nil, fmt.Errorf("%w: ChangeRelationshipStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ChangeRelationshipStatus: relationship=%s %s -> %s", rel.ID, previous, rel.Status)

	batch := effects.NotifyParties([]uuid.UUID{rel.MentorID, rel.MenteeID}, domain.NotificationRelationship,
		"Mentorship updated", fmt.Sprintf("Mentorship is now %s", rel.Status),
		map[string]interface{}{"relationship_id": rel.ID.String(), "from": string(previous), "to": string(rel.Status)})
	batch = append(batch, relationshipAudit(rel, req.ActorID, domain.AuditRelationshipChanged, previous, rel.Status))
	s.dispatcher.Dispatch(ctx, batch)

	return models.FromDomainRelationship(rel), nil
}

func relationshipAudit(rel *domain.Relationship, actor uuid.UUID, action string, from, to domain.RelationshipStatus) effects.Effect {
	return effects.RecordAudit{Entry: domain.AuditEntry{
		UserID:      actor,
		Action:      action,
		Description: fmt.Sprintf("relationship %s is %s", rel.ID, to),
		Metadata: map[string]interface{}{
			"relationship_id": rel.ID.String(),
			"mentor_id":       rel.MentorID.String(),
			"mentee_id":       rel.MenteeID.String(),
			"from":            string(from),
			"to":              string(to),
		},
	}}
}
