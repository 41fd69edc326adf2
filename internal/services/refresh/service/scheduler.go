package service

import (
	"context"
	"sync/atomic"
	"time"

	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"
	"starforge/internal/services/refresh/domain"

	"github.com/go-co-op/gocron"
)

// Scheduler runs a refresh on a cron expression
// a tick that lands while a run is in progress is skipped, never queued
type Scheduler struct {
	Runner domain.RunnerPort
	Cron   string

	busy    atomic.Bool
	skipped atomic.Int64
}

// NewScheduler constructs a scheduler for runner on expr (standard 5 field cron, UTC)
func NewScheduler(runner domain.RunnerPort, expr string) *Scheduler {
	return &Scheduler{Runner: runner, Cron: expr}
}

// Start blocks until ctx is done, running Tick on every cron fire
func (s *Scheduler) Start(ctx context.Context) error {
	if s.Cron == "" {
		return perr.InvalidArgf("refresh: schedule is empty, set CORE_REFRESH_SCHEDULE")
	}
	sched := gocron.NewScheduler(time.UTC)
	if _, err := sched.Cron(s.Cron).Do(func() { s.Tick(ctx) }); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "refresh: bad schedule %q", s.Cron)
	}

	logger.C(ctx).Info().Str("cron", s.Cron).Msg("refresh: scheduler started")
	sched.StartAsync()
	<-ctx.Done()
	sched.Stop()
	logger.C(ctx).Info().Int64("skipped", s.skipped.Load()).Msg("refresh: scheduler stopped")
	return nil
}

// Tick runs one refresh unless one is already in progress
// it reports whether a run was started
func (s *Scheduler) Tick(ctx context.Context) bool {
	if !s.busy.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		logger.C(ctx).Warn().Msg("refresh: previous run still in progress, tick skipped")
		return false
	}
	defer s.busy.Store(false)

	run, err := s.Runner.Run(ctx)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("run_id", run.ID).Msg("refresh: scheduled run failed")
		return true
	}
	logger.C(ctx).Info().Str("run_id", run.ID).Str("state", string(run.State)).Msg("refresh: scheduled run finished")
	return true
}

// Skipped returns how many ticks were dropped
func (s *Scheduler) Skipped() int64 { return s.skipped.Load() }
