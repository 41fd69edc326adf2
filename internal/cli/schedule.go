package cli

import (
	"os"
	"os/signal"
	"syscall"

	"starforge/internal/platform/config"
	"starforge/internal/platform/logger"
	refreshmod "starforge/internal/services/refresh/module"

	"github.com/spf13/cobra"
)

// ScheduleOptions holds flags for the schedule command
type ScheduleOptions struct {
	*RootOptions
	Source string
	Table  string
	Cron   string
}

// NewScheduleCommand creates the schedule command
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run refreshes on a cron schedule until interrupted",
		Long: `Run a refresh on every tick of the cron expression.

A tick that fires while the previous refresh is still running is skipped.
The expression comes from --cron or CORE_REFRESH_SCHEDULE.

Example:
  starforge schedule --cron "0 3 * * *" --source file:///data/online_retail_II.csv.gz`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "landing uri (file, sqlite, mysql, postgres)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "landing table for sql sources")
	cmd.Flags().StringVar(&opts.Cron, "cron", "", "cron expression, overrides CORE_REFRESH_SCHEDULE")

	return cmd
}

func runSchedule(cmd *cobra.Command, opts *ScheduleOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.New()
	ropts, err := refreshOptions(cfg, "", false)
	if err != nil {
		return err
	}
	if opts.Cron != "" {
		ropts.Schedule = opts.Cron
	}
	src, err := resolveSource(cfg, opts.Source, opts.Table)
	if err != nil {
		return err
	}
	deps, closeFn, err := openDeps(ctx, cfg, false, "schedule")
	if err != nil {
		return err
	}
	defer closeFn()

	sched := refreshmod.New(deps, src, ropts).Typed().Scheduler

	logger.Named("cli").Info().Str("cron", ropts.Schedule).Str("source", src.Name()).Msg("schedule: started")
	if err := sched.Start(ctx); err != nil {
		return WrapExitError(ExitCommandError, "schedule", err)
	}
	logger.Named("cli").Info().Int64("skipped", sched.Skipped()).Msg("schedule: stopped")
	return nil
}
