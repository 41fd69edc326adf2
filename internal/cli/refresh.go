package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"starforge/internal/core/report"
	"starforge/internal/platform/config"
	perr "starforge/internal/platform/errors"
	refreshdom "starforge/internal/services/refresh/domain"
	refreshmod "starforge/internal/services/refresh/module"
	stmod "starforge/internal/services/staging/module"

	"github.com/spf13/cobra"
)

// RefreshOptions holds flags for the refresh command
type RefreshOptions struct {
	*RootOptions
	Source     string
	Table      string
	CollectAll bool
	Policy     string
	DryRun     bool
	Report     bool
}

// NewRefreshCommand creates the refresh command
func NewRefreshCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RefreshOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one full warehouse refresh",
		Long: `Run one refresh: stage, build dimensions, assemble facts.

The landing source comes from --source or CORE_INGEST_SOURCE. With --dry-run the
warehouse lives in memory for the length of the command and nothing is written.

Example:
  starforge refresh --source file:///data/online_retail_II.csv.gz --report
  starforge refresh --source sqlite:///data/landing.db --table raw_online_retail
  starforge refresh --source ./retail.csv --dry-run --collect-all --report`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "landing uri (file, sqlite, mysql, postgres)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "landing table for sql sources")
	cmd.Flags().BoolVar(&opts.CollectAll, "collect-all", false, "record every failed rule instead of the first")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "yaml validation policy file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "in memory warehouse, nothing is written")
	cmd.Flags().BoolVar(&opts.Report, "report", false, "print the quality report")

	return cmd
}

func runRefresh(cmd *cobra.Command, opts *RefreshOptions) error {
	ctx := cmd.Context()
	cfg := config.New()

	ropts, err := refreshOptions(cfg, opts.Policy, opts.CollectAll)
	if err != nil {
		return err
	}
	src, err := resolveSource(cfg, opts.Source, opts.Table)
	if err != nil {
		return err
	}
	deps, closeFn, err := openDeps(ctx, cfg, opts.DryRun, "refresh")
	if err != nil {
		return err
	}
	defer closeFn()

	m := refreshmod.New(deps, src, ropts)
	run, runErr := m.Typed().Runner.Run(ctx)

	if run.ID != "" {
		if err := writeRun(cmd.OutOrStdout(), opts.Format, opts.Report, run); err != nil {
			return WrapExitError(ExitCommandError, "write output", err)
		}
	}
	if runErr != nil {
		if perr.CodeOf(runErr) == perr.ErrorCodeConflict {
			return WrapExitError(ExitConflict, "refresh refused", runErr)
		}
		return WrapExitError(ExitFailure, "refresh failed", runErr)
	}
	return nil
}

// refreshOptions layers the --policy and --collect-all flags over CORE_REFRESH_
func refreshOptions(cfg config.Conf, policyFile string, collectAll bool) (refreshmod.Options, error) {
	ropts, err := refreshmod.FromConfig(cfg)
	if err != nil {
		return ropts, WrapExitError(ExitCommandError, "refresh config", err)
	}
	if policyFile != "" {
		p, err := stmod.LoadPolicyFile(policyFile)
		if err != nil {
			return ropts, WrapExitError(ExitCommandError, "policy file", err)
		}
		p.CollectAll = p.CollectAll || ropts.Staging.Policy.CollectAll
		ropts.Staging.Policy = p
	}
	if collectAll {
		ropts.Staging.Policy.CollectAll = true
	}
	return ropts, nil
}

// runView is the json form of a finished run
type runView struct {
	RunID       string         `json:"run_id"`
	State       string         `json:"state"`
	Source      string         `json:"source"`
	Counts      map[string]int `json:"counts"`
	SuccessRate float64        `json:"success_rate"`
	Delta       int            `json:"delta"`
	Issues      []report.Issue `json:"issues"`
	ElapsedMS   int64          `json:"elapsed_ms"`
	Error       string         `json:"error,omitempty"`
}

func writeRun(w io.Writer, format string, full bool, run refreshdom.Run) error {
	s := run.Summary()
	switch {
	case format == "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runView{
			RunID:  s.RunID,
			State:  s.State,
			Source: s.Source,
			Counts: map[string]int{
				"raw": s.Raw, "skipped": s.Skipped, "staged": s.Staged, "valid": s.Valid,
				"customers": s.Customers, "products": s.Products, "dates": s.Dates, "countries": s.Countries,
				"facts": s.Facts, "rejected": s.Rejected,
			},
			SuccessRate: s.SuccessRate(),
			Delta:       s.Delta(),
			Issues:      s.Issues,
			ElapsedMS:   run.Elapsed.Milliseconds(),
			Error:       run.Err,
		})
	case full:
		return report.Render(w, s)
	}
	_, err := fmt.Fprintf(w, "run %s %s: %d facts, %d rejected, %d invalid of %d staged in %s\n",
		s.RunID, s.State, s.Facts, s.Rejected, s.Invalid(), s.Staged, run.Elapsed.Round(time.Millisecond))
	return err
}
