// Package module wires the fact stage
package module

import (
	"starforge/internal/modkit"
	"starforge/internal/modkit/repokit"
	phttp "starforge/internal/platform/net/http"
	"starforge/internal/platform/store"
	"starforge/internal/services/facts/domain"
	"starforge/internal/services/facts/repo"
	"starforge/internal/services/facts/service"
)

// Ports defines the fact module ports
type Ports struct {
	Assembler domain.AssemblerPort
	Binder    repokit.Binder[domain.StorageRepo]
}

// Module implements the fact module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the fact module
// without a postgres seam in deps the fact tables live in process
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
		InsertChunk: opts.InsertChunk,
		Retry:       store.RetryPolicy{Attempts: opts.Retries, Base: opts.RetryBase},
	})
	return &Module{deps: deps, ports: Ports{Assembler: svc, Binder: binder}}
}

// Name returns the module name
func (m *Module) Name() string { return "facts" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Typed returns the ports without the any wrapper
func (m *Module) Typed() Ports { return m.ports }

// MountRoutes is a no-op as facts has no routes
func (m *Module) MountRoutes(phttp.Router) {}

var _ modkit.Module = (*Module)(nil)
