package store

import (
	"context"
	"time"

	perr "starforge/internal/platform/errors"
	chx "starforge/internal/platform/store/ch"
	"starforge/internal/platform/store/pg"
)

// boot ping backoff
const (
	connectBase = 150 * time.Millisecond
	connectMax  = 2 * time.Second
)

func openPG(ctx context.Context, cfg PGConfig, app string, o options) (*pgAdapter, error) {
	if cfg.URL == "" {
		return nil, perr.InvalidArgf("store: postgres url is empty")
	}
	var tr pg.QueryTracer
	if cfg.LogSQL {
		tr = pg.Tracer(o.log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.URL,
		MaxConns: cfg.MaxConns,
		SlowMs:   cfg.SlowQueryMs,
		AppName:  app,
		Tracer:   tr,
	})
	if err != nil {
		return nil, err
	}
	if err := waitReady(ctx, p.Pool, cfg.ConnectRetries, cfg.PingTimeout); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

// waitReady pings until p answers; the pool is pinged directly so boot retries stay out of the sql trace
func waitReady(ctx context.Context, p Pinger, attempts int, timeout time.Duration) error {
	if attempts <= 0 {
		attempts = 6
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	backoff := RetryPolicy{Attempts: attempts, Base: connectBase, Max: connectMax}

	var last error
	for i := range attempts {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		last = p.Ping(pctx)
		cancel()
		if last == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		if err := SleepCtx(ctx, backoff.delay(i)); err != nil {
			return err
		}
	}
	return perr.Wrapf(last, perr.ErrorCodeUnavailable, "store: postgres not ready after %d pings", attempts)
}

func openCH(ctx context.Context, cfg CHConfig, o options) (*chx.CH, error) {
	log := o.log
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.URL,
		ClientName: cfg.ClientName,
		ClientTag:  cfg.ClientTag,
		LogSQL:     cfg.LogSQL,
		Debugf:     func(format string, v ...any) { log.Debug().Msgf(format, v...) },
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "store: clickhouse")
	}
	return c, nil
}
