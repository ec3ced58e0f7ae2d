package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Storage     StorageConfig     `toml:"storage"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Scheduling  SchedulingConfig  `toml:"scheduling"`
	UserService UserServiceConfig `toml:"user_service"`
	Calendar    CalendarConfig    `toml:"calendar"`
	CORS        CORSConfig        `toml:"cors"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL адрес подключения для golang-migrate
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type StorageConfig struct {
	Driver string `toml:"driver"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type SchedulingConfig struct {
	MinAdvanceNoticeMinutes       int  `toml:"min_advance_notice_minutes"`
	MinDurationMinutes            int  `toml:"min_duration_minutes"`
	MaxDurationMinutes            int  `toml:"max_duration_minutes"`
	DefaultDurationMinutes        int  `toml:"default_duration_minutes"`
	SlotStepMinutes               int  `toml:"slot_step_minutes"`
	MaxSlotRangeDays              int  `toml:"max_slot_range_days"`
	RequireActiveRelationship     bool `toml:"require_active_relationship"`
	NoShowAfterHours              int  `toml:"no_show_after_hours"`
	FeedbackReminderAfterHours    int  `toml:"feedback_reminder_after_hours"`
	FeedbackReminderIntervalHours int  `toml:"feedback_reminder_interval_hours"`
	MaxFeedbackReminders          int  `toml:"max_feedback_reminders"`
	SweepIntervalMinutes          int  `toml:"sweep_interval_minutes"`
	EffectTimeoutSeconds          int  `toml:"effect_timeout_seconds"`
}

// Rules правила планирования для движка
func (c SchedulingConfig) Rules() domain.SchedulingRules {
	return domain.SchedulingRules{
		MinAdvanceNotice:          time.Duration(c.MinAdvanceNoticeMinutes) * time.Minute,
		MinDurationMinutes:        c.MinDurationMinutes,
		MaxDurationMinutes:        c.MaxDurationMinutes,
		DefaultDurationMinutes:    c.DefaultDurationMinutes,
		SlotStep:                  time.Duration(c.SlotStepMinutes) * time.Minute,
		MaxSlotRangeDays:          c.MaxSlotRangeDays,
		RequireActiveRelationship: c.RequireActiveRelationship,
		NoShowAfter:               time.Duration(c.NoShowAfterHours) * time.Hour,
		FeedbackReminderAfter:     time.Duration(c.FeedbackReminderAfterHours) * time.Hour,
		FeedbackReminderInterval:  time.Duration(c.FeedbackReminderIntervalHours) * time.Hour,
		MaxFeedbackReminders:      c.MaxFeedbackReminders,
	}
}

func (c SchedulingConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

func (c SchedulingConfig) EffectTimeout() time.Duration {
	return time.Duration(c.EffectTimeoutSeconds) * time.Second
}

// UserServiceConfig пустой URL = локальный каталог без проверки ролей
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type CalendarConfig struct {
	Enabled         bool   `toml:"enabled"`
	CredentialsFile string `toml:"credentials_file"`
	CalendarID      string `toml:"calendar_id"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Default значения, которые файл может не указывать
func Default() *Config {
	rules := domain.DefaultSchedulingRules()
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: DriverPostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "mentorship_service"},
		Scheduling: SchedulingConfig{
			MinAdvanceNoticeMinutes:       int(rules.MinAdvanceNotice / time.Minute),
			MinDurationMinutes:            rules.MinDurationMinutes,
			MaxDurationMinutes:            rules.MaxDurationMinutes,
			DefaultDurationMinutes:        rules.DefaultDurationMinutes,
			SlotStepMinutes:               int(rules.SlotStep / time.Minute),
			MaxSlotRangeDays:              rules.MaxSlotRangeDays,
			RequireActiveRelationship:     rules.RequireActiveRelationship,
			NoShowAfterHours:              domain.DefaultNoShowAfterHours,
			FeedbackReminderAfterHours:    domain.DefaultFeedbackReminderAfter,
			FeedbackReminderIntervalHours: domain.DefaultFeedbackReminderInterval,
			MaxFeedbackReminders:          rules.MaxFeedbackReminders,
			SweepIntervalMinutes:          15,
			EffectTimeoutSeconds:          10,
		},
		UserService: UserServiceConfig{Timeout: 5},
		Calendar:    CalendarConfig{CalendarID: "primary"},
	}
}

// Load читает TOML поверх значений по умолчанию, затем применяет переменные окружения.
// .env в рабочей директории загружается, если есть.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("DB_HOST"); ok && v != "" {
		c.Database.Host = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("HTTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		c.Logs.Level = v
	}
	if v, ok := os.LookupEnv("GOOGLE_CALENDAR_CREDENTIALS"); ok && v != "" {
		c.Calendar.CredentialsFile = v
	}
	return nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, v ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, v...))
		}
	}

	check(c.Server.HTTPPort > 0 && c.Server.HTTPPort < 65536, "server.http_port=%d is out of range", c.Server.HTTPPort)
	check(c.Server.ReadTimeout > 0 && c.Server.WriteTimeout > 0 && c.Server.IdleTimeout > 0 && c.Server.ShutdownTimeout > 0,
		"server timeouts must be positive")
	check(c.Storage.Driver == DriverPostgres || c.Storage.Driver == DriverMemory, "storage.driver=%q is unknown", c.Storage.Driver)
	if c.Storage.Driver == DriverPostgres {
		check(c.Database.Port > 0, "database.port must be positive")
		check(c.Database.DBName != "", "database.dbname is required")
	}

	s := c.Scheduling
	check(s.MinDurationMinutes > 0, "scheduling.min_duration_minutes must be positive")
	check(s.MinDurationMinutes <= s.DefaultDurationMinutes && s.DefaultDurationMinutes <= s.MaxDurationMinutes,
		"scheduling durations must satisfy min <= default <= max")
	check(s.SlotStepMinutes > 0, "scheduling.slot_step_minutes must be positive")
	check(s.MaxSlotRangeDays > 0, "scheduling.max_slot_range_days must be positive")
	check(s.MinAdvanceNoticeMinutes >= 0, "scheduling.min_advance_notice_minutes must not be negative")
	check(s.NoShowAfterHours > 0, "scheduling.no_show_after_hours must be positive")
	check(s.FeedbackReminderAfterHours >= 0 && s.FeedbackReminderIntervalHours > 0,
		"scheduling feedback reminder timings are invalid")
	check(s.MaxFeedbackReminders >= 0, "scheduling.max_feedback_reminders must not be negative")
	check(s.SweepIntervalMinutes > 0, "scheduling.sweep_interval_minutes must be positive")
	check(s.EffectTimeoutSeconds > 0, "scheduling.effect_timeout_seconds must be positive")

	if c.Metrics.Enabled {
		check(c.Metrics.Path != "", "metrics.path is required when metrics are enabled")
	}
	if c.Calendar.Enabled {
		check(c.Calendar.CredentialsFile != "", "calendar.credentials_file is required when calendar is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
