// Package scheduler re-runs the full walk-forward scan on a cron schedule in
// daemon mode, pushing each run's summary to the notifier when one is
// configured.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ReversionScout/internal/notify"
	"ReversionScout/internal/report"
	"ReversionScout/internal/runner"
)

// Scheduler owns the cron loop around the runner.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *runner.Runner
	Notifier *notify.Telegram // nil disables pushes
	Log      zerolog.Logger
	Ctx      context.Context
}

// NewScheduler creates a scheduler bound to the run context.
func NewScheduler(ctx context.Context, r *runner.Runner, tn *notify.Telegram, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   r,
		Notifier: tn,
		Log:      log,
		Ctx:      ctx,
	}
}

// Register adds the scan task on the given cron expression.
func (s *Scheduler) Register(cronExpr string) error {
	if _, err := s.Cron.AddFunc(cronExpr, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Log.Info().Msg("scheduler stopped")
}

// RunNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	started := time.Now()
	s.Log.Info().Msg("running walk-forward scan")

	results, failures := s.Runner.Run(s.Ctx)
	for symbol, err := range failures {
		s.Log.Error().Err(err).Str("symbol", symbol).Msg("scan symbol failed")
	}

	summary := report.FormatRunSummary(results, started)
	s.Log.Info().Int("symbols", len(results)).Dur("elapsed", time.Since(started)).Msg("scan finished")

	if s.Notifier != nil {
		if err := s.Notifier.SendWithRetry(s.Ctx, summary, 3); err != nil {
			s.Log.Error().Err(err).Msg("send scan summary")
		}
	} else {
		fmt.Print(summary)
	}
}
