package guardrails

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"starforge/internal/modkit/repokit"
	"starforge/internal/platform/logger"
	"starforge/internal/platform/store"
)

// ErrLeaseHeld signals another refresh owns the warehouse already
var ErrLeaseHeld = errors.New("refresh: lease already held")

// LeaseFunc claims name for runID, runs do and releases the claim afterwards
type LeaseFunc func(ctx context.Context, runID string, do func(context.Context) error) error

// MakePGLease returns a LeaseFunc backed by one refresh_leases row.
// A claim older than ttl is treated as abandoned and taken over.
// If the row is live it returns ErrLeaseHeld without running do.
// The row is deleted once do returns, whatever the outcome
func MakePGLease(db repokit.TxRunner, name string, ttl time.Duration) LeaseFunc {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	interval := fmt.Sprintf("%d seconds", int64(ttl/time.Second))

	return func(ctx context.Context, runID string, do func(context.Context) error) error {
		var claimed bool
		err := db.Tx(ctx, func(q store.RowQuerier) error {
			rows, err := q.Query(ctx, `
				insert into refresh_leases (name, run_id, acquired_at)
				values ($1, $2::uuid, now())
				on conflict (name) do update
				   set run_id = excluded.run_id, acquired_at = excluded.acquired_at
				 where refresh_leases.acquired_at < now() - ($3)::interval
				returning true
			`, name, runID, interval)
			if err != nil {
				return err
			}
			defer rows.Close()
			if rows.Next() {
				claimed = true
			}
			return rows.Err()
		})
		if err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}

		defer func() {
			// release on a fresh context so a cancelled run still frees the row
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			_, rerr := db.Exec(rctx, `delete from refresh_leases where name = $1 and run_id = $2::uuid`, name, runID)
			if rerr != nil {
				logger.C(ctx).Warn().Err(rerr).Str("lease", name).Msg("refresh: lease release failed")
			}
		}()
		return do(ctx)
	}
}

// MakeLocalLease is the in process lease used when no database is configured
func MakeLocalLease() LeaseFunc {
	var mu sync.Mutex
	return func(ctx context.Context, _ string, do func(context.Context) error) error {
		if !mu.TryLock() {
			return ErrLeaseHeld
		}
		defer mu.Unlock()
		return do(ctx)
	}
}
