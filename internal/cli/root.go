// Package cli holds the starforge command tree
package cli

import (
	"fmt"
	"os"
	"slices"

	"starforge/internal/platform/logger"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"
}

// ValidFormats defines the allowed output formats
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the starforge CLI
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "starforge",
		Short: "starforge - retail star schema refresh",
		Long: `Loads the landed online retail extract into a star schema.

A refresh stages and validates every landed row, rebuilds the customer and
product dimensions as version chains, then assembles fact_sales. Every run
replaces the warehouse tables, so running it twice gives the same result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			initLogger(opts)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(NewRefreshCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// initLogger applies --verbose over LOG_ env settings, first call wins
func initLogger(opts *RootOptions) {
	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = "starforge"
	}
	if opts.Verbose {
		lo.Level = "debug"
	} else if os.Getenv("LOG_LEVEL") == "" {
		lo.Level = "info"
	}
	// stdout carries command output
	lo.Writer = os.Stderr
	logger.Init(lo)
}
