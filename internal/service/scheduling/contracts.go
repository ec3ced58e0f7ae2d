package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
)

// SessionRepository все операции над сессиями, которые нужны движку
type SessionRepository interface {
	LockParticipants(ctx context.Context, userIDs ...uuid.UUID) error
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session, expected domain.SessionStatus) error
	ListActiveForParticipants(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]*domain.Session, error)
	ListByMentor(ctx context.Context, mentorID uuid.UUID, from, to time.Time) ([]*domain.Session, error)
	ListByUser(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error)
	ListExpired(ctx context.Context, statuses []domain.SessionStatus, before time.Time, limit int) ([]*domain.Session, error)
	ListPendingFeedback(ctx context.Context, filter domain.PendingFeedbackFilter) ([]*domain.Session, error)
	SaveMentorFeedback(ctx context.Context, id uuid.UUID, fb domain.MentorFeedback) error
	SaveMenteeFeedback(ctx context.Context, id uuid.UUID, fb domain.MenteeFeedback) error
	CompleteFeedback(ctx context.Context, id uuid.UUID) (float64, bool, error)
	MarkFeedbackReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

// MentorRepository профили доступности
type MentorRepository interface {
	GetProfile(ctx context.Context, mentorID uuid.UUID) (*domain.MentorProfile, error)
	SaveProfile(ctx context.Context, profile *domain.MentorProfile) (*domain.MentorProfile, error)
}

// StatsRepository накопленные показатели участников
type StatsRepository interface {
	IncrementCompleted(ctx context.Context, userID uuid.UUID, hours float64) error
	GetStats(ctx context.Context, userID uuid.UUID) (*domain.ParticipantStats, error)
}

// RelationshipRepository связи ментор-менти
type RelationshipRepository interface {
	Create(ctx context.Context, rel *domain.Relationship) (*domain.Relationship, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Relationship, error)
	FindActive(ctx context.Context, mentorID, menteeID uuid.UUID) (*domain.Relationship, error)
	UpdateStatus(ctx context.Context, rel *domain.Relationship, expected domain.RelationshipStatus) error
}

// UserDirectory каталог пользователей
type UserDirectory interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*userservice.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EffectDispatcher исполнитель побочных эффектов
type EffectDispatcher interface {
	Dispatch(ctx context.Context, batch []effects.Effect)
}

// Metrics доменные счетчики
type Metrics interface {
	IncSessionCreated(source string)
	IncSessionRejected(kind string)
	IncTransition(from, to string)
	IncFeedbackCompleted()
	IncSweepItem(sweep, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
