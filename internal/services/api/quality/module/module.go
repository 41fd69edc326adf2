// Package module mounts the data quality endpoints
package module

import (
	"starforge/internal/modkit"
	"starforge/internal/modkit/httpkit"
	"starforge/internal/modkit/repokit"
	"starforge/internal/platform/store"
	qualityhttp "starforge/internal/services/api/quality/http"
	qualityrepo "starforge/internal/services/api/quality/repo"
	qualitysvc "starforge/internal/services/api/quality/service"
	refreshdom "starforge/internal/services/refresh/domain"
	refreshrepo "starforge/internal/services/refresh/repo"
)

// Module is the quality API module
type Module struct {
	b   modkit.Built
	svc qualitysvc.Service
}

// New builds the quality module
// without postgres it serves an empty read model so the routes still answer
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	var (
		db   repokit.TxRunner = deps.PG
		repo repokit.Binder[qualityrepo.Repo]
		runs repokit.Binder[refreshdom.StorageRepo]
	)
	if db == nil {
		db = store.Offline{}
		repo = qualityrepo.NewMemory(nil, nil)
		runs = refreshrepo.NewMemory()
	} else {
		repo = qualityrepo.NewPG()
		runs = refreshrepo.NewPG()
	}
	return &Module{
		b:   modkit.Build(append([]modkit.Option{modkit.WithName("quality"), modkit.WithPrefix("/quality")}, opts...)...),
		svc: qualitysvc.New(db, repo, runs),
	}
}

func (m *Module) Name() string { return m.b.Name }

// Ports returns the quality service
func (m *Module) Ports() any { return m.svc }

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { qualityhttp.Register(sub, m.svc) })
}
