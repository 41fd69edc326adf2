// Package module mounts the meta endpoints: liveness, readiness and build info
package module

import (
	"time"

	"starforge/internal/modkit"
	"starforge/internal/modkit/httpkit"
	metahttp "starforge/internal/services/api/meta/http"
)

// Module is the meta API module
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New builds the meta module; readiness pings whichever stores deps carries
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	return &Module{
		b: modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...),
		deps: metahttp.Deps{
			ServiceName: "starforge-api",
			StartedAt:   time.Now(),
			PG:          pinger(deps.PG),
			CH:          pinger(deps.CH),
		},
	}
}

func (m *Module) Name() string { return m.b.Name }

func (m *Module) Ports() any { return nil }

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}

// a nil store stays a nil interface so readiness reports it as skipped
func pinger[T any](v T) metahttp.Pinger {
	if p, ok := any(v).(metahttp.Pinger); ok {
		return p
	}
	return nil
}
