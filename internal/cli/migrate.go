package cli

import (
	"fmt"

	"starforge/internal/platform/config"
	"starforge/internal/platform/store/schema"
	mirrorrepo "starforge/internal/services/mirror/repo"

	"github.com/spf13/cobra"
)

// MigrateOptions holds flags for the migrate command
type MigrateOptions struct {
	*RootOptions
	Mirror bool
}

// NewMigrateCommand creates the migrate command
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the warehouse tables",
		Long: `Create every missing warehouse table and index in postgres.

The DDL only adds what is missing, so migrate is safe to run on every deploy.
With --mirror the clickhouse mirror tables are created as well.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Mirror, "mirror", false, "also create the clickhouse mirror tables")
	return cmd
}

func runMigrate(cmd *cobra.Command, opts *MigrateOptions) error {
	ctx := cmd.Context()
	deps, closeFn, err := openDeps(ctx, config.New(), false, "migrate")
	if err != nil {
		return err
	}
	defer closeFn()

	if err := schema.Apply(ctx, deps.PG); err != nil {
		return WrapExitError(ExitFailure, "apply warehouse schema", err)
	}
	n := len(schema.Statements())

	if opts.Mirror {
		if deps.CH == nil {
			return NewExitError(ExitCommandError, "--mirror needs SERVICE_CLICKHOUSE_ENABLED")
		}
		if err := mirrorrepo.NewCH(deps.CH).Ensure(ctx); err != nil {
			return WrapExitError(ExitFailure, "apply mirror schema", err)
		}
		n += len(schema.MirrorStatements())
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %d statements\n", n)
	return err
}
