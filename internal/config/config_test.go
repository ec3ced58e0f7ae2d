package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
dbname = "mentorship"
user = "app"

[scheduling]
min_advance_notice_minutes = 120
max_feedback_reminders = 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "default kept")
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Contains(t, cfg.Database.DSN(), "dbname=mentorship")
	assert.Equal(t, "postgres://app:@localhost:5432/mentorship?sslmode=disable", cfg.Database.URL())

	rules := cfg.Scheduling.Rules()
	assert.Equal(t, 2*time.Hour, rules.MinAdvanceNotice)
	assert.Equal(t, 30*time.Minute, rules.SlotStep)
	assert.Equal(t, 24*time.Hour, rules.NoShowAfter)
	assert.Equal(t, 0, rules.MaxFeedbackReminders)
	assert.True(t, rules.RequireActiveRelationship)
	assert.Equal(t, 15*time.Minute, cfg.Scheduling.SweepInterval())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[database]\ndbname = \"mentorship\"\n")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GOOGLE_CALENDAR_CREDENTIALS", "/run/secrets/calendar.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 8181, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, "/run/secrets/calendar.json", cfg.Calendar.CredentialsFile)

	t.Setenv("HTTP_PORT", "eighty")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"default above max", func(c *Config) { c.Scheduling.DefaultDurationMinutes = 500 }},
		{"zero slot step", func(c *Config) { c.Scheduling.SlotStepMinutes = 0 }},
		{"port out of range", func(c *Config) { c.Server.HTTPPort = 70000 }},
		{"calendar without credentials", func(c *Config) { c.Calendar.Enabled = true }},
		{"postgres without dbname", func(c *Config) { c.Database.DBName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.DBName = "mentorship"
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	memory := Default()
	memory.Storage.Driver = DriverMemory
	assert.NoError(t, memory.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
