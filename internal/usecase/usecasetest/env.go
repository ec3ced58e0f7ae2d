// Package usecasetest окружение для тестов use case: хранилище в памяти,
// фиктивные внешние системы и фиксированные часы.
package usecasetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	"github.com/m04kA/SMC-MentorshipService/internal/effects/effectstest"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MentorshipService/pkg/logger"
	"github.com/m04kA/SMC-MentorshipService/pkg/metrics"
)

// Now среда 2026-10-14 10:00 UTC
var Now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

// NextMonday понедельник после Now
var NextMonday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

// At время дня NextMonday
func At(hour, minute int) time.Time {
	return NextMonday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type Env struct {
	Store      *memory.Store
	Clock      *effectstest.Clock
	Calendar   *effectstest.Calendar
	Notifier   *effectstest.Notifier
	Reminders  *effectstest.Reminders
	Audit      *effectstest.Audit
	Dispatcher *effects.Dispatcher
	Users      *userservice.StaticDirectory
	Rules      domain.SchedulingRules
	Logger     *logger.Logger
	Metrics    *metrics.Metrics // nil: методы метрик безопасны для nil
}

func NewEnv() *Env {
	store := memory.NewStore()
	clock := effectstest.NewClock(Now)
	env := &Env{
		Store:     store,
		Clock:     clock,
		Calendar:  effectstest.NewCalendar(),
		Notifier:  effectstest.NewNotifier(),
		Reminders: effectstest.NewReminders(),
		Audit:     effectstest.NewAudit(),
		Users:     userservice.NewStaticDirectory(),
		Rules:     domain.DefaultSchedulingRules(),
		Logger:    logger.NewNop(),
	}
	env.Dispatcher = effects.NewDispatcher(effects.Collaborators{
		Calendar:  env.Calendar,
		Notifier:  env.Notifier,
		Reminders: env.Reminders,
		Audit:     env.Audit,
		Refs:      store.Sessions(),
	}, time.Second, nil, env.Logger)
	env.Dispatcher.SetTimeProvider(clock)
	return env
}

// Mentor регистрирует ментора в каталоге
func (e *Env) Mentor() uuid.UUID {
	id := uuid.New()
	e.Users.Add(userservice.User{ID: id, Name: "mentor", Role: userservice.RoleMentor})
	return id
}

// Mentee регистрирует предпринимателя в каталоге
func (e *Env) Mentee() uuid.UUID {
	id := uuid.New()
	e.Users.Add(userservice.User{ID: id, Name: "mentee", Role: userservice.RoleEntrepreneur})
	return id
}

// Pair ментор и менти с активной связью
func (e *Env) Pair(t *testing.T) (uuid.UUID, uuid.UUID) {
	mentor, mentee := e.Mentor(), e.Mentee()
	e.Relate(t, mentor, mentee)
	return mentor, mentee
}

// Relate создает активную связь
func (e *Env) Relate(t *testing.T, mentor, mentee uuid.UUID) *domain.Relationship {
	rel := &domain.Relationship{ID: uuid.New(), MentorID: mentor, MenteeID: mentee, Status: domain.RelationshipActive}
	_, err := e.Store.Relationships().Create(context.Background(), rel)
	require.NoError(t, err)
	return rel
}

// Profile сохраняет профиль ментора
func (e *Env) Profile(t *testing.T, profile *domain.MentorProfile) *domain.MentorProfile {
	saved, err := e.Store.Mentors().SaveProfile(context.Background(), profile)
	require.NoError(t, err)
	return saved
}

// Session вставляет сессию напрямую в хранилище
func (e *Env) Session(t *testing.T, mentor, mentee uuid.UUID, at time.Time, status domain.SessionStatus) *domain.Session {
	s := &domain.Session{
		ID:              uuid.New(),
		MentorID:        mentor,
		MenteeID:        mentee,
		Title:           "weekly sync",
		ScheduledAt:     at.UTC(),
		DurationMinutes: 60,
		Status:          status,
	}
	created, err := e.Store.Sessions().Create(context.Background(), s)
	require.NoError(t, err)
	return created
}

// Get читает сессию из хранилища
func (e *Env) Get(t *testing.T, id uuid.UUID) *domain.Session {
	s, err := e.Store.Sessions().GetByID(context.Background(), id)
	require.NoError(t, err)
	return s
}
