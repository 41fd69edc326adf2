// Package api provides the HTTP API for the warehouse
package api

import (
	"starforge/internal/platform/config"
	"starforge/internal/platform/logger"
	phttp "starforge/internal/platform/net/http"
	"starforge/internal/platform/store"

	"starforge/internal/modkit"
	"starforge/internal/modkit/httpkit"

	metamod "starforge/internal/services/api/meta/module"
	qualitymod "starforge/internal/services/api/quality/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	// CORE_API_TOKEN guards the quality routes, meta stays open for probes
	var qopts []modkit.Option
	if tok := opt.Config.MayString("TOKEN", ""); tok != "" {
		qopts = append(qopts, modkit.WithMiddlewares(httpkit.Auth(tokenAuth{token: tok})))
	}

	mods := []modkit.Module{
		metamod.New(deps),
		qualitymod.New(deps, qopts...),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPI(r, "v1", httpkit.CommonStack(opt.Config.MayCSV("CORS_ORIGINS", nil)...), func(api httpkit.Router) {
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
