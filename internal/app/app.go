// Package app собирает движок и инфраструктуру по конфигурации.
// Используется сервером и mentorctl.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/m04kA/SMC-MentorshipService/internal/config"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/audit"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/notify"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/reminders"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/storage/memory"
	mentorRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/mentor"
	relationshipRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/relationship"
	sessionRepo "github.com/m04kA/SMC-MentorshipService/internal/infra/storage/session"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/googlecalendar"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MentorshipService/internal/service/scheduling"
	"github.com/m04kA/SMC-MentorshipService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MentorshipService/pkg/logger"
	"github.com/m04kA/SMC-MentorshipService/pkg/metrics"
	"github.com/m04kA/SMC-MentorshipService/pkg/txmanager"
)

type sessionStore interface {
	scheduling.SessionRepository
	effects.SessionRefs
}

type storage struct {
	sessions      sessionStore
	mentors       scheduling.MentorRepository
	stats         scheduling.StatsRepository
	relationships scheduling.RelationshipRepository
	txManager     scheduling.TransactionManager
	gorm          *gorm.DB
}

// App собранный движок и его инфраструктура
type App struct {
	Engine     *scheduling.Service
	Inbox      *notify.Inbox
	Audit      *audit.Log
	Reminders  *reminders.Scheduler
	Dispatcher *effects.Dispatcher
	Metrics    *metrics.Metrics // nil, если метрики выключены

	db     *sql.DB
	stopCh chan struct{}
	log    *logger.Logger
}

// New подключает хранилище и внешние системы. m может быть nil.
func New(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*App, error) {
	a := &App{Metrics: m, stopCh: make(chan struct{}), log: log}

	// 1. Хранилище
	var (
		store *storage
		err   error
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store, err = openMemory()
	default:
		store, err = a.openPostgres(ctx, cfg)
	}
	if err != nil {
		a.Close()
		return nil, err
	}

	// 2. Каталог пользователей
	var users scheduling.UserDirectory = userservice.PermissiveDirectory{}
	if cfg.UserService.URL != "" {
		users = userservice.NewClient(
			cfg.UserService.URL,
			time.Duration(cfg.UserService.Timeout)*time.Second,
			log,
		)
		log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)
	} else {
		log.Warn("UserService url is not configured, every non-nil user is accepted")
	}

	// 3. Побочные каналы
	a.Inbox = notify.NewInbox(store.gorm, log)
	a.Audit = audit.NewLog(store.gorm, log)
	a.Reminders = reminders.NewScheduler(a.Inbox, cfg.Scheduling.EffectTimeout(), log)
	a.Reminders.SetSessionSource(store.sessions)

	collaborators := effects.Collaborators{
		Notifier:  a.Inbox,
		Reminders: a.Reminders,
		Audit:     a.Audit,
		Refs:      store.sessions,
	}
	if cfg.Calendar.Enabled {
		calendarClient, err := newCalendar(ctx, cfg.Calendar, users, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		collaborators.Calendar = calendarClient
		log.Info("Google Calendar sync enabled (calendar=%s)", cfg.Calendar.CalendarID)
	}
	a.Dispatcher = effects.NewDispatcher(collaborators, cfg.Scheduling.EffectTimeout(), m, log)

	// 4. Движок
	deps := scheduling.Dependencies{
		Sessions:      store.sessions,
		Mentors:       store.mentors,
		Stats:         store.stats,
		Relationships: store.relationships,
		Users:         users,
		TxManager:     store.txManager,
		Dispatcher:    a.Dispatcher,
		Rules:         cfg.Scheduling.Rules(),
		Logger:        log,
	}
	if m != nil {
		deps.Metrics = m
	}
	a.Engine = scheduling.Build(deps)

	return a, nil
}

// Close дожидается фоновых эффектов и закрывает соединения
func (a *App) Close() {
	if a.Dispatcher != nil {
		a.Dispatcher.Wait()
	}
	if a.Reminders != nil {
		a.Reminders.Close()
	}
	close(a.stopCh)
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close database: %v", err)
		}
	}
}

func (a *App) openPostgres(ctx context.Context, cfg *config.Config) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("app: failed to open database: %w", err)
	}
	a.db = db

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("app: failed to ping database: %w", err)
	}
	a.log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrapped *dbmetrics.DB
	if a.Metrics != nil {
		wrapped = dbmetrics.WrapWithDefault(db, a.Metrics, a.stopCh)
		a.log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil)
	}

	// gorm поверх того же пула
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("app: failed to open gorm: %w", err)
	}

	return &storage{
		sessions:      sessionRepo.NewRepository(wrapped),
		mentors:       mentorRepo.NewRepository(wrapped),
		stats:         mentorRepo.NewStatsRepository(wrapped),
		relationships: relationshipRepo.NewRepository(wrapped),
		txManager:     txmanager.NewTransactionManager(wrapped),
		gorm:          gdb,
	}, nil
}

// openMemory данные в памяти процесса, уведомления и аудит в sqlite :memory:
func openMemory() (*storage, error) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("app: failed to open sqlite: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("app: failed to get sqlite pool: %w", err)
	}
	// :memory: живет в рамках одного соединения
	sqlDB.SetMaxOpenConns(1)

	if err := notify.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("app: failed to migrate notifications: %w", err)
	}
	if err := audit.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("app: failed to migrate audit log: %w", err)
	}

	mem := memory.NewStore()
	return &storage{
		sessions:      mem.Sessions(),
		mentors:       mem.Mentors(),
		stats:         mem.Stats(),
		relationships: mem.Relationships(),
		txManager:     mem.TxManager(),
		gorm:          gdb,
	}, nil
}

func newCalendar(ctx context.Context, cfg config.CalendarConfig, users scheduling.UserDirectory, log *logger.Logger) (*googlecalendar.Client, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("app: failed to read calendar credentials: %w", err)
	}
	creds, err := googlecalendar.CredentialsOption(ctx, raw)
	if err != nil {
		return nil, err
	}
	return googlecalendar.NewClient(ctx, cfg.CalendarID, users, log, creds)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
}
