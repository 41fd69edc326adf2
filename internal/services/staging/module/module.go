// Package module wires the staging stage
package module

import (
	"starforge/internal/modkit"
	"starforge/internal/modkit/repokit"
	phttp "starforge/internal/platform/net/http"
	"starforge/internal/platform/store"
	"starforge/internal/services/staging/domain"
	"starforge/internal/services/staging/repo"
	"starforge/internal/services/staging/service"
)

// Ports defines the staging module ports
type Ports struct {
	Stager domain.StagerPort
	Binder repokit.Binder[domain.StorageRepo]
}

// Module implements the staging module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the staging module
// without a postgres seam in deps the staged table lives in process
func New(deps modkit.Deps, opts Options) *Module {
	var (
		db     repokit.TxRunner = deps.PG
		binder repokit.Binder[domain.StorageRepo]
	)
	if db == nil {
		db = store.Offline{}
		binder = repo.NewMemory()
	} else {
		binder = repo.NewPG()
	}

	svc := service.New(db, binder, service.Config{
		Workers:     opts.Workers,
		InsertChunk: opts.InsertChunk,
		Policy:      opts.Policy,
		Retry:       store.RetryPolicy{Attempts: opts.Retries, Base: opts.RetryBase},
	})

	return &Module{deps: deps, ports: Ports{Stager: svc, Binder: binder}}
}

// Name returns the module name
func (m *Module) Name() string { return "staging" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Typed returns the ports without the any wrapper
func (m *Module) Typed() Ports { return m.ports }

// MountRoutes is a no-op as staging has no routes
func (m *Module) MountRoutes(phttp.Router) {}

var _ modkit.Module = (*Module)(nil)
