package sweeper

import (
	"context"
	"time"
)

// Sweeps обе фоновые задачи
type Sweeps interface {
	CleanupExpiredSessions(ctx context.Context) (*SweepResult, error)
	SendPendingFeedbackReminders(ctx context.Context) (*SweepResult, error)
}

// Runner запускает обе задачи сразу и затем каждые interval до отмены ctx
type Runner struct {
	sweeps   Sweeps
	interval time.Duration
	logger   Logger
}

func NewRunner(sweeps Sweeps, interval time.Duration, logger Logger) *Runner {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Runner{sweeps: sweeps, interval: interval, logger: logger}
}

// Run блокируется до отмены ctx
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("Sweeper: started, interval=%s", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ticker.C:
			r.tick(ctx)
		case <-ctx.Done():
			r.logger.Info("Sweeper: stopped")
			return
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if _, err := r.sweeps.CleanupExpiredSessions(ctx); err != nil {
		r.logger.Error("Sweeper: cleanup expired sessions failed: %v", err)
	}
	if _, err := r.sweeps.SendPendingFeedbackReminders(ctx); err != nil {
		r.logger.Error("Sweeper: feedback reminders failed: %v", err)
	}
}
