// Package service runs the staging, dimension and fact stages as one idempotent refresh
package service

import (
	"context"
	"errors"
	"time"

	"starforge/internal/adapters/ingest/landing"
	"starforge/internal/modkit/repokit"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"
	"starforge/internal/platform/store"
	ptime "starforge/internal/platform/time"
	dimdom "starforge/internal/services/dimensions/domain"
	factdom "starforge/internal/services/facts/domain"
	keyres "starforge/internal/services/keyres/service"
	"starforge/internal/services/refresh/domain"
	"starforge/internal/services/refresh/guardrails"
	stagedom "starforge/internal/services/staging/domain"

	"github.com/google/uuid"
)

// Config holds configuration options for the refresh service
type Config struct {
	// EnableLeases guards the warehouse with the single run lease
	EnableLeases bool

	// Timeouts applied via guardrails
	Timeouts guardrails.Timeouts

	// Mirror publishes dims and facts after DONE when a mirror is wired
	Mirror bool

	Retry store.RetryPolicy
}

// Stages are the three stage ports a refresh drives, in order
type Stages struct {
	Stager    stagedom.StagerPort
	Builder   dimdom.BuilderPort
	Assembler factdom.AssemblerPort
}

// Service implements domain.RunnerPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Source landing.Source
	Stages Stages
	Cfg    Config

	// Lease is optional, nil means runs are not serialized
	Lease guardrails.LeaseFunc

	// Mirror is optional, used when Cfg.Mirror is set
	Mirror domain.MirrorPort

	now   func() time.Time
	newID func() string
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs the refresh service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	src landing.Source,
	stages Stages,
	cfg Config,
	lease guardrails.LeaseFunc,
	mirror domain.MirrorPort,
) *Service {
	if db == nil {
		panic("refresh.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("refresh.Service requires a non nil Repo binder")
	}
	if src == nil {
		panic("refresh.Service requires a source")
	}
	if stages.Stager == nil || stages.Builder == nil || stages.Assembler == nil {
		panic("refresh.Service requires all three stages")
	}
	return &Service{
		DB: db, Binder: binder, Source: src, Stages: stages, Cfg: cfg,
		Lease: lease, Mirror: mirror,
		now:   ptime.NowUTC,
		newID: uuid.NewString,
	}
}

// Run implements domain.RunnerPort
// A held lease is a Conflict and nothing is recorded. A failed run is recorded
// as FAILED and its error returned, nothing is retried
func (s *Service) Run(ctx context.Context) (domain.Run, error) {
	id := s.newID()
	ctx = logger.WithField(store.WithRunID(ctx, id), "run_id", id)

	if s.Lease == nil || !s.Cfg.EnableLeases {
		return s.run(ctx, id)
	}

	var (
		run    domain.Run
		runErr error
	)
	err := s.Lease(ctx, id, func(ctx context.Context) error {
		run, runErr = s.run(ctx, id)
		return runErr
	})
	if errors.Is(err, guardrails.ErrLeaseHeld) {
		return domain.Run{}, perr.Conflictf("refresh: another run holds the warehouse")
	}
	if err != nil && runErr == nil {
		// the lease itself failed before the run started
		return domain.Run{}, perr.FromPostgres(err, "refresh: acquire lease")
	}
	return run, runErr
}

func (s *Service) run(ctx context.Context, id string) (run domain.Run, retErr error) {
	runCtx, cancel := guardrails.WithRun(ctx, s.Cfg.Timeouts)
	defer cancel()

	l := logger.C(ctx).With().Str("mod", "refresh").Logger()
	run = domain.Run{ID: id, State: domain.StateIdle, Source: s.Source.Name(), StartedAt: s.now()}

	// best effort, a missing start row must not block the refresh
	if err := s.record(runCtx, func(r domain.StorageRepo, c context.Context) error { return r.StartRun(c, run) }); err != nil {
		l.Warn().Err(err).Msg("refresh: start run not recorded")
	}

	defer func() {
		if retErr != nil {
			run.State, _ = run.State.Next(domain.StateFailed)
			run.Err = joinErr(retErr.Error(), run.Err)
			l.Error().Err(retErr).Str("state", string(run.State)).Msg("refresh: failed")
		}
		fin := s.now()
		run.FinishedAt = ptime.Ptr(fin)
		run.Elapsed = fin.Sub(run.StartedAt)

		// record on a fresh context so cancelled runs still land in the log
		if err := s.record(context.WithoutCancel(ctx), func(r domain.StorageRepo, c context.Context) error { return r.FinishRun(c, run) }); err != nil {
			l.Warn().Err(err).Msg("refresh: finish run not recorded")
		}
	}()

	advance := func(to domain.State) error {
		next, err := run.State.Next(to)
		l.Info().Str("from", string(run.State)).Str("to", string(next)).Msg("refresh: transition")
		run.State = next
		return err
	}

	// STAGING
	if err := advance(domain.StateStaging); err != nil {
		return run, err
	}
	var staged stagedom.Result
	err := s.stage(runCtx, domain.StateStaging, func(c context.Context) (e error) {
		staged, e = s.Stages.Stager.Stage(c, s.Source)
		return e
	})
	if err != nil {
		return run, err
	}
	run.Counts.Raw, run.Counts.Skipped = staged.Raw, staged.Skipped
	run.Counts.Staged, run.Counts.Valid = staged.Staged(), staged.Valid
	run.Issues = staged.Issues

	// DIMENSIONING
	if err := advance(domain.StateDimensioning); err != nil {
		return run, err
	}
	var snap dimdom.Snapshot
	err = s.stage(runCtx, domain.StateDimensioning, func(c context.Context) (e error) {
		snap, e = s.Stages.Builder.Build(c, staged.Records)
		return e
	})
	if err != nil {
		return run, err
	}
	counts := snap.Counts()
	run.Counts.Customers = counts[dimdom.DimCustomer]
	run.Counts.Products = counts[dimdom.DimProduct]
	run.Counts.Dates = counts[dimdom.DimDate]
	run.Counts.Countries = counts[dimdom.DimCountry]

	// FACT_ASSEMBLING
	if err := advance(domain.StateFactAssembling); err != nil {
		return run, err
	}
	var facts factdom.Result
	err = s.stage(runCtx, domain.StateFactAssembling, func(c context.Context) (e error) {
		facts, e = s.Stages.Assembler.Assemble(c, staged.Records, keyres.NewResolver(snap), s.now())
		return e
	})
	if err != nil {
		return run, err
	}
	run.Counts.Facts, run.Counts.Rejected = len(facts.Facts), len(facts.Rejections)

	if err := advance(domain.StateDone); err != nil {
		return run, err
	}

	if s.Cfg.Mirror && s.Mirror != nil {
		if err := s.Mirror.Publish(runCtx, snap, facts.Facts); err != nil {
			l.Warn().Err(err).Msg("refresh: mirror publish failed")
			run.Err = "mirror: " + err.Error()
		}
	}

	l.Info().
		Int("raw", run.Counts.Raw).
		Int("valid", run.Counts.Valid).
		Int("facts", run.Counts.Facts).
		Int("rejected", run.Counts.Rejected).
		Dur("elapsed", s.now().Sub(run.StartedAt)).
		Msg("refresh: done")
	return run, nil
}

// stage runs fn under the stage budget with the stage name on the context
func (s *Service) stage(ctx context.Context, st domain.State, fn func(context.Context) error) error {
	ctx = logger.WithField(store.WithStage(ctx, string(st)), "stage", string(st))
	c, cancel := guardrails.ForStage(ctx, s.Cfg.Timeouts)
	defer cancel()
	if err := fn(c); err != nil {
		return perr.Wrapf(err, perr.CodeOf(err), "refresh: %s", st)
	}
	return nil
}

func (s *Service) record(ctx context.Context, fn func(domain.StorageRepo, context.Context) error) error {
	c, cancel := guardrails.ForDB(ctx, s.Cfg.Timeouts)
	defer cancel()
	return store.RunTx(c, s.DB, s.Cfg.Retry, func(q repokit.Queryer) error {
		return fn(s.Binder.Bind(q), c)
	})
}

func joinErr(a, b string) string {
	switch {
	case b == "":
		return a
	case a == "":
		return b
	}
	return a + "; " + b
}
