// Package module wires the refresh orchestrator and its stages
package module

import (
	"starforge/internal/adapters/ingest/landing"
	"starforge/internal/modkit"
	"starforge/internal/modkit/repokit"
	phttp "starforge/internal/platform/net/http"
	"starforge/internal/platform/store"
	dimmod "starforge/internal/services/dimensions/module"
	factmod "starforge/internal/services/facts/module"
	mirmod "starforge/internal/services/mirror/module"
	"starforge/internal/services/refresh/domain"
	"starforge/internal/services/refresh/guardrails"
	"starforge/internal/services/refresh/repo"
	"starforge/internal/services/refresh/service"
	stmod "starforge/internal/services/staging/module"
)

// Ports defines the refresh module ports
type Ports struct {
	Runner    domain.RunnerPort
	Scheduler *service.Scheduler
	Runs      repokit.Binder[domain.StorageRepo]
	DB        repokit.TxRunner
}

// Module implements the refresh module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the refresh module reading from src
// without a postgres seam every table, the run log and the lease live in process
func New(deps modkit.Deps, src landing.Source, opts Options) *Module {
	var (
		db     repokit.TxRunner = deps.PG
		binder repokit.Binder[domain.StorageRepo]
		lease  guardrails.LeaseFunc
	)
	if db == nil {
		db = store.Offline{}
		binder = repo.NewMemory()
		lease = guardrails.MakeLocalLease()
	} else {
		binder = repo.NewPG()
		lease = guardrails.MakePGLease(db, opts.LeaseName, opts.LeaseTTL)
	}

	staging := stmod.New(deps, opts.Staging).Typed()
	dims := dimmod.New(deps, opts.Dimensions).Typed()
	facts := factmod.New(deps, opts.Facts).Typed()
	mirror := mirmod.New(deps, opts.Mirroring).Typed()

	var pub domain.MirrorPort
	if mirror.Publisher != nil {
		pub = mirror.Publisher
	}

	svc := service.New(db, binder, src,
		service.Stages{Stager: staging.Stager, Builder: dims.Builder, Assembler: facts.Assembler},
		service.Config{
			EnableLeases: opts.EnableLeases,
			Timeouts: guardrails.Timeouts{
				Run:   opts.RunTimeout,
				Stage: opts.StageTimeout,
				DB:    opts.DBTimeout,
			},
			Mirror: opts.Mirror,
			Retry:  store.RetryPolicy{Attempts: opts.Retries, Base: opts.RetryBase},
		},
		lease, pub,
	)

	return &Module{deps: deps, ports: Ports{
		Runner:    svc,
		Scheduler: service.NewScheduler(svc, opts.Schedule),
		Runs:      binder,
		DB:        db,
	}}
}

// Name returns the module name
func (m *Module) Name() string { return "refresh" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Typed returns the ports without the any wrapper
func (m *Module) Typed() Ports { return m.ports }

// MountRoutes is a no-op as refresh has no routes
func (m *Module) MountRoutes(phttp.Router) {}

var _ modkit.Module = (*Module)(nil)
