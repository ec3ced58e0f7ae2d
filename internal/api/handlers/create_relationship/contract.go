package create_relationship

import (
	"context"

	"github.com/m04kA/SMC-MentorshipService/internal/service/availability/models"
)

type RelationshipService interface {
	RequestRelationship(ctx context.Context, req *models.CreateRelationshipRequest) (*models.RelationshipResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
