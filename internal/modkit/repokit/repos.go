// Package repokit holds the seams repositories are written against
package repokit

import "starforge/internal/platform/store"

type (
	// Queryer is what a bound repo runs statements on: the pool or an open tx
	Queryer = store.RowQuerier

	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner

	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// Binder hands out a repo bound to q, so one service method can run
// several repos inside the same transaction
type Binder[T any] interface {
	Bind(q Queryer) T
}
