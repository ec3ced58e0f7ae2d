// Package commands обслуживающие команды mentorctl: миграции и разовые проходы sweeper.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MentorshipService/internal/config"
	"github.com/m04kA/SMC-MentorshipService/pkg/logger"
)

const defaultConfigPath = "config.toml"

type options struct {
	configPath string
}

// NewRootCmd корневая команда mentorctl
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "mentorctl",
		Short: "Maintenance tool for the mentorship scheduling service",
		Long: `mentorctl applies database migrations and runs the background sweeps once,
for deployments that schedule them from cron instead of the server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to config.toml")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newSweepCmd(opts))
	return root
}

// Execute запускает mentorctl с аргументами процесса
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
