package cli

import (
	"context"

	"starforge/internal/adapters/ingest/landing"
	"starforge/internal/adapters/ingest/sources"
	"starforge/internal/modkit"
	"starforge/internal/platform/config"
	"starforge/internal/platform/logger"
	"starforge/internal/platform/store"
)

// openDeps opens the warehouse store, a dry run gets no store so every module falls back to memory
func openDeps(ctx context.Context, cfg config.Conf, dry bool, tag string) (modkit.Deps, func(), error) {
	deps := modkit.Deps{Cfg: cfg, Log: *logger.Get()}
	if dry {
		return deps, func() {}, nil
	}

	sc := store.FromConfig(cfg, tag)
	if !sc.PG.Enabled {
		return deps, nil, NewExitError(ExitCommandError, "postgres is disabled, use --dry-run for an in memory refresh")
	}
	if err := cfg.Prefix("SERVICE_PGSQL_").Require("URL"); err != nil {
		return deps, nil, WrapExitError(ExitCommandError, "postgres", err)
	}
	st, err := store.Open(ctx, sc, store.WithLogger(*logger.Get()))
	if err != nil {
		return deps, nil, WrapExitError(ExitCommandError, "open store", err)
	}
	closeFn := func() {
		if err := st.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Named("cli").Error().Err(err).Msg("failed to close store")
		}
	}
	if err := st.Guard(ctx); err != nil {
		closeFn()
		return deps, nil, WrapExitError(ExitCommandError, "store not ready", err)
	}
	deps.PG, deps.CH = st.PG, st.CH
	return deps, closeFn, nil
}

// resolveSource picks the landing source, flags win over CORE_INGEST_
func resolveSource(cfg config.Conf, uri, table string) (landing.Source, error) {
	ic := cfg.Prefix("CORE_INGEST_")
	if uri == "" {
		uri = ic.MayString("SOURCE", "")
	}
	if table == "" {
		table = ic.MayString("TABLE", sources.DefaultTable)
	}
	src, err := sources.FromURI(uri, table)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "landing source", err)
	}
	return src, nil
}
