package get_mentor_metrics

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
)

type MetricsService interface {
	GetMentorMetrics(ctx context.Context, mentorID uuid.UUID, periodDays int) (*models.MentorMetricsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
