package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starforge/internal/platform/config"
	"starforge/internal/platform/logger"
	phttp "starforge/internal/platform/net/http"
	"starforge/internal/platform/net/middleware"
	"starforge/internal/platform/store"
	"starforge/internal/services/api"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = "starforge-api"
	}
	logger.Init(lo)
	l := logger.Get()

	// postgres off means the read models serve an empty in memory warehouse
	st, err := store.Open(ctx, store.FromConfig(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// /healthz answers before routing for load balancers
	srv := phttp.NewServer(root, func(m *chi.Mux) { m.Use(middleware.Heartbeat("/healthz")) })
	api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Store:          st,
		Logger:         l,
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
