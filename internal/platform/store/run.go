package store

import (
	"context"
	"math/rand"
	"time"

	perr "starforge/internal/platform/errors"
)

// RetryPolicy bounds RunTx retries
// zero value means one attempt
type RetryPolicy struct {
	Attempts int           // <=0 -> 1
	Base     time.Duration // <=0 -> 250ms
	Max      time.Duration // <=0 -> 10s
}

// delay is the jittered backoff before retry i+1: half the capped exponential step plus up to as much again
func (p RetryPolicy) delay(i int) time.Duration {
	base := p.Base
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	ceil := p.Max
	if ceil <= 0 {
		ceil = 10 * time.Second
	}
	d := min(base<<i, ceil)
	return d/2 + time.Duration(rand.Int63n(int64(d/2)+1))
}

// RunTx runs fn inside one transaction on tx
// retryable failures (serialization, deadlock, unavailable) start a fresh transaction
// with jittered exponential backoff, anything else is returned as is
func RunTx(ctx context.Context, tx TxRunner, p RetryPolicy, fn func(q RowQuerier) error) error {
	attempts := max(p.Attempts, 1)

	var last error
	for i := range attempts {
		err := tx.Tx(ctx, func(q RowQuerier) error {
			tuneTx(ctx, q)
			return fn(q)
		})
		if err == nil {
			return nil
		}
		last = err
		if !perr.Retryable(err) && perr.CodeOf(err) != perr.ErrorCodeUnavailable {
			return last
		}
		if i == attempts-1 {
			break
		}
		if se := SleepCtx(ctx, p.delay(i)); se != nil {
			return se
		}
	}
	return last
}

// SleepCtx sleeps for d or until ctx is done
func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SET LOCAL only lives for the duration of the current transaction
// offline runners reject it, which is fine
func tuneTx(ctx context.Context, q RowQuerier) {
	if _, ok := q.(Offline); ok {
		return
	}
	_, _ = q.Exec(ctx, "SET LOCAL statement_timeout = 0")
}
