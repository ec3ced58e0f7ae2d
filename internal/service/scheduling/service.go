// Package scheduling единая точка входа движка планирования: создание, смена статуса,
// перенос, слоты, отзывы, показатели менторов и фоновые задачи.
package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/service/availability"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sessions"
	sessionsModels "github.com/m04kA/SMC-MentorshipService/internal/service/sessions/models"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sweeper"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/create_session"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/reschedule_session"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/submit_feedback"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/update_status"
)

// Dependencies внешние зависимости движка
type Dependencies struct {
	Sessions      SessionRepository
	Mentors       MentorRepository
	Stats         StatsRepository
	Relationships RelationshipRepository
	Users         UserDirectory
	TxManager     TransactionManager
	Dispatcher    EffectDispatcher
	Metrics       Metrics // nil = без метрик
	Rules         domain.SchedulingRules
	Logger        Logger
}

// Service фасад над use case и сервисами
type Service struct {
	createSession     *create_session.UseCase
	updateStatus      *update_status.UseCase
	rescheduleSession *reschedule_session.UseCase
	availableSlots    *get_available_slots.UseCase
	submitFeedback    *submit_feedback.UseCase

	sessions     *sessions.Service
	availability *availability.Service
	sweeper      *sweeper.Service
}

// Build собирает движок из зависимостей
func Build(deps Dependencies) *Service {
	m := deps.Metrics
	if m == nil {
		m = noopMetrics{}
	}

	return &Service{
		createSession: create_session.NewUseCase(
			deps.Sessions,
			deps.Mentors,
			deps.Relationships,
			deps.Users,
			deps.TxManager,
			deps.Dispatcher,
			m,
			deps.Rules,
			deps.Logger,
		),
		updateStatus: update_status.NewUseCase(
			deps.Sessions,
			deps.Stats,
			deps.TxManager,
			deps.Dispatcher,
			m,
			deps.Logger,
		),
		rescheduleSession: reschedule_session.NewUseCase(
			deps.Sessions,
			deps.Mentors,
			deps.TxManager,
			deps.Dispatcher,
			m,
			deps.Rules,
			deps.Logger,
		),
		availableSlots: get_available_slots.NewUseCase(
			deps.Sessions,
			deps.Mentors,
			deps.Rules,
			deps.Logger,
		),
		submitFeedback: submit_feedback.NewUseCase(
			deps.Sessions,
			deps.Dispatcher,
			m,
			deps.Logger,
		),
		sessions: sessions.NewService(
			deps.Sessions,
			deps.Stats,
			deps.Logger,
		),
		availability: availability.NewService(
			deps.Mentors,
			deps.Relationships,
			deps.Users,
			deps.Dispatcher,
			deps.Rules,
			deps.Logger,
		),
		sweeper: sweeper.NewService(
			deps.Sessions,
			deps.Dispatcher,
			m,
			deps.Rules,
			deps.Logger,
		),
	}
}

// SetTimeProvider подменяет часы во всех частях движка (для тестов)
func (s *Service) SetTimeProvider(tp TimeProvider) {
	s.createSession.SetTimeProvider(tp)
	s.updateStatus.SetTimeProvider(tp)
	s.rescheduleSession.SetTimeProvider(tp)
	s.availableSlots.SetTimeProvider(tp)
	s.submitFeedback.SetTimeProvider(tp)
	s.sessions.SetTimeProvider(tp)
	s.availability.SetTimeProvider(tp)
	s.sweeper.SetTimeProvider(tp)
}

func (s *Service) CreateSession(ctx context.Context, req *create_session.Request) (*create_session.Response, error) {
	return s.createSession.Execute(ctx, req)
}

func (s *Service) UpdateStatus(ctx context.Context, req *update_status.Request) (*update_status.Response, error) {
	return s.updateStatus.Execute(ctx, req)
}

func (s *Service) RescheduleSession(ctx context.Context, req *reschedule_session.Request) (*reschedule_session.Response, error) {
	return s.rescheduleSession.Execute(ctx, req)
}

func (s *Service) GetAvailableSlots(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error) {
	return s.availableSlots.Execute(ctx, req)
}

func (s *Service) SubmitFeedback(ctx context.Context, req *submit_feedback.Request) (*submit_feedback.Response, error) {
	return s.submitFeedback.Execute(ctx, req)
}

func (s *Service) GetMentorMetrics(ctx context.Context, mentorID uuid.UUID, periodDays int) (*sessionsModels.MentorMetricsResponse, error) {
	return s.sessions.MentorMetrics(ctx, mentorID, periodDays)
}

func (s *Service) CleanupExpiredSessions(ctx context.Context) (*sweeper.SweepResult, error) {
	return s.sweeper.CleanupExpiredSessions(ctx)
}

func (s *Service) SendPendingFeedbackReminders(ctx context.Context) (*sweeper.SweepResult, error) {
	return s.sweeper.SendPendingFeedbackReminders(ctx)
}

// Sessions сервис чтения сессий
func (s *Service) Sessions() *sessions.Service {
	return s.sessions
}

// Availability сервис расписаний и связей
func (s *Service) Availability() *availability.Service {
	return s.availability
}

type noopMetrics struct{}

func (noopMetrics) IncSessionCreated(string)     {}
func (noopMetrics) IncSessionRejected(string)    {}
func (noopMetrics) IncTransition(string, string) {}
func (noopMetrics) IncFeedbackCompleted()        {}
func (noopMetrics) IncSweepItem(string, string)  {}
