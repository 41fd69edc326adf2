package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	perr "starforge/internal/platform/errors"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type pingTx struct {
	Offline
	err error
}

func (p pingTx) Ping(context.Context) error { return p.err }

type pingCH struct {
	err    error
	closed bool
}

func (c *pingCH) Insert(context.Context, string, [][]any) error { return nil }
func (c *pingCH) Exec(context.Context, string, ...any) error    { return nil }
func (c *pingCH) Ping(context.Context) error                    { return c.err }
func (c *pingCH) Close() error                                  { c.closed = true; return nil }

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		code perr.ErrorCode
	}{
		{"pg empty url", Config{PG: PGConfig{Enabled: true}}, perr.ErrorCodeInvalidArgument},
		{"pg bad url", Config{PG: PGConfig{Enabled: true, URL: "://bad"}}, perr.ErrorCodeInvalidArgument},
		{"ch bad url", Config{CH: CHConfig{Enabled: true, URL: "://bad"}}, perr.ErrorCodeUnavailable},
		{"pg fails before ch", Config{PG: PGConfig{Enabled: true, URL: "://bad"}, CH: CHConfig{Enabled: true, URL: "://bad"}}, perr.ErrorCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := Open(context.Background(), tt.cfg)
			require.Error(t, err)
			require.Nil(t, s)
			require.Equal(t, tt.code, perr.CodeOf(err))
		})
	}
}

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	require.Nil(t, s.PG)
	require.Nil(t, s.CH)

	s.log.Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")

	require.NoError(t, s.Guard(context.Background()))
	require.NoError(t, s.Close(context.Background()))
}

func TestGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var nilStore *Store
	require.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(nilStore.Guard(ctx)))

	// Offline has no Ping, nothing to check
	require.NoError(t, (&Store{PG: Offline{}}).Guard(ctx))
	require.NoError(t, (&Store{PG: pingTx{}, CH: &pingCH{}}).Guard(ctx))

	err := (&Store{PG: pingTx{err: errors.New("refused")}}).Guard(ctx)
	require.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
	require.EqualError(t, err, "pg: refused")

	err = (&Store{PG: pingTx{err: errors.New("refused")}, CH: &pingCH{err: errors.New("timeout")}}).Guard(ctx)
	require.ErrorContains(t, err, "pg: refused")
	require.ErrorContains(t, err, "ch: timeout")
}

func TestClose(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	require.NoError(t, nilStore.Close(context.Background()))

	ch := &pingCH{}
	require.NoError(t, (&Store{PG: Offline{}, CH: ch}).Close(context.Background()))
	require.True(t, ch.closed)
}

type flakyPinger struct {
	fails int
	calls int
}

func (f *flakyPinger) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.fails {
		return errors.New("the database system is starting up")
	}
	return nil
}

func TestWaitReady(t *testing.T) {
	t.Parallel()

	p := &flakyPinger{fails: 1}
	require.NoError(t, waitReady(context.Background(), p, 3, time.Second))
	require.Equal(t, 2, p.calls)

	p = &flakyPinger{fails: 10}
	err := waitReady(context.Background(), p, 2, time.Second)
	require.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
	require.ErrorContains(t, err, "starting up")
	require.Equal(t, 2, p.calls)
}

func TestWaitReady_CanceledWhileBackingOff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := waitReady(ctx, &flakyPinger{fails: 10}, 5, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetryPolicyDelay(t *testing.T) {
	t.Parallel()

	p := RetryPolicy{Base: 100 * time.Millisecond, Max: 300 * time.Millisecond}
	for i := range 6 {
		d := p.delay(i)
		step := min(p.Base<<i, p.Max)
		require.GreaterOrEqual(t, d, step/2)
		require.LessOrEqual(t, d, step)
	}
}
