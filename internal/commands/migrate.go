package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MentorshipService/internal/config"
)

// ErrMigrationsUnsupported миграции применяются только к PostgreSQL
var ErrMigrationsUnsupported = errors.New("commands: migrations require the postgres storage driver")

func newMigrateCmd(opts *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "migrations", "directory with migration files")

	run := func(apply func(m *migrate.Migrate) error, done string) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer log.Close()

			m, err := newMigrator(cfg, dir)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := apply(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				log.Error("migrate: %v", err)
				return err
			}

			version, dirty, err := m.Version()
			if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
				return err
			}
			log.Info("migrate: %s, version=%d, dirty=%t", done, version, dirty)
			fmt.Fprintf(c.OutOrStdout(), "%s (version %d)\n", done, version)
			return nil
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  run(func(m *migrate.Migrate) error { return m.Up() }, "migrations applied"),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE:  run(func(m *migrate.Migrate) error { return m.Steps(-1) }, "migration rolled back"),
	})
	return cmd
}

func newMigrator(cfg *config.Config, dir string) (*migrate.Migrate, error) {
	if cfg.Storage.Driver != config.DriverPostgres {
		return nil, ErrMigrationsUnsupported
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("commands: bad migrations dir %q: %w", dir, err)
	}
	m, err := migrate.New("file://"+abs, cfg.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("commands: failed to init migrations: %w", err)
	}
	return m, nil
}
