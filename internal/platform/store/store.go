// Package store opens the warehouse backends: postgres for the star schema
// and, optionally, clickhouse for the analytics mirror
package store

import (
	"context"
	"errors"

	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Store holds the opened backends, a disabled one stays nil
type Store struct {
	PG TxRunner
	CH Clickhouse

	log logger.Logger
}

type options struct {
	log logger.Logger
}

// Option tunes Open
type Option func(*options)

// WithLogger routes sql tracing and driver debug output to l
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Open connects every backend cfg enables; a failure closes what was already open
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	s := &Store{log: o.log}

	if cfg.PG.Enabled {
		a, err := openPG(ctx, cfg.PG, cfg.AppName, o)
		if err != nil {
			return nil, err
		}
		s.PG = a
	}
	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg.CH, o)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}
	return s, nil
}

// Guard pings every open backend concurrently; failures come back joined and coded unavailable
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return perr.Unavailablef("store: not opened")
	}
	var (
		g    errgroup.Group
		errs [2]error
	)
	ping := func(i int, name string, b any) {
		p, ok := b.(Pinger)
		if !ok {
			return
		}
		g.Go(func() error {
			if err := p.Ping(ctx); err != nil {
				errs[i] = perr.Wrap(err, perr.ErrorCodeUnavailable, name)
			}
			return nil
		})
	}
	if s.PG != nil {
		ping(0, "pg", s.PG)
	}
	if s.CH != nil {
		ping(1, "ch", s.CH)
	}
	_ = g.Wait()
	return errors.Join(errs[:]...)
}

// Close releases the backends, clickhouse first
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
