// Package module wires the dimension stage
package module

import (
	"starforge/internal/core/keyseq"
	"starforge/internal/modkit"
	"starforge/internal/modkit/repokit"
	phttp "starforge/internal/platform/net/http"
	"starforge/internal/platform/store"
	"starforge/internal/services/dimensions/domain"
	"starforge/internal/services/dimensions/repo"
	"starforge/internal/services/dimensions/service"
)

// Ports defines the dimension module ports
type Ports struct {
	Builder domain.BuilderPort
	Seq     keyseq.Sequence
}

// Module implements the dimension module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the dimension module
// without a postgres seam in deps the tables and the key sequence live in process
func New(deps modkit.Deps, opts Options) *Module {
	var (
		db     repokit.TxRunner = deps.PG
		binder repokit.Binder[domain.StorageRepo]
		seq    keyseq.Sequence
	)
	if db == nil {
		db = store.Offline{}
		binder = repo.NewMemory()
		seq = keyseq.NewMemory()
	} else {
		binder = repo.NewPG()
		seq = repo.NewSequence(db)
	}

	svc := service.New(db, binder, seq, service.Config{
		InsertChunk: opts.InsertChunk,
		Retry:       store.RetryPolicy{Attempts: opts.Retries, Base: opts.RetryBase},
	})
	return &Module{deps: deps, ports: Ports{Builder: svc, Seq: seq}}
}

// Name returns the module name
func (m *Module) Name() string { return "dimensions" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Typed returns the ports without the any wrapper
func (m *Module) Typed() Ports { return m.ports }

// MountRoutes is a no-op as dimensions has no routes
func (m *Module) MountRoutes(phttp.Router) {}

var _ modkit.Module = (*Module)(nil)
