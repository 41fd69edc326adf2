package store

import (
	"context"

	perr "starforge/internal/platform/errors"
)

// Offline is a TxRunner with no database behind it
// Tx runs fn directly, for repos that keep their own state in process
// sql calls fail with ErrorCodeUnavailable
type Offline struct{}

var _ TxRunner = Offline{}

var errOffline = perr.New(perr.ErrorCodeUnavailable, "store: offline, no database configured")

// Exec implements RowQuerier
func (Offline) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, errOffline }

// Query implements RowQuerier
func (Offline) Query(context.Context, string, ...any) (Rows, error) { return nil, errOffline }

// QueryRow implements RowQuerier
func (Offline) QueryRow(context.Context, string, ...any) Row { return offlineRow{} }

// Tx implements TxRunner
func (o Offline) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(o)
}

type offlineRow struct{}

func (offlineRow) Scan(...any) error { return errOffline }
