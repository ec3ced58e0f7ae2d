package update_relationship_status

import (
	"context"

	"github.com/m04kA/SMC-MentorshipService/internal/service/availability/models"
)

type RelationshipService interface {
	ChangeRelationshipStatus(ctx context.Context, req *models.ChangeRelationshipStatusRequest) (*models.RelationshipResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
