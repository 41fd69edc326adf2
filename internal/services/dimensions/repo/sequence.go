package repo

import (
	"context"

	"starforge/internal/core/keyseq"
	"starforge/internal/modkit/repokit"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/store"
)

// Sequence is the postgres keyseq.Sequence over surrogate_sequences
// each reservation commits on its own so a key is never handed out twice,
// even when the dimension write that asked for it rolls back
type Sequence struct {
	DB repokit.TxRunner
}

var _ keyseq.Sequence = (*Sequence)(nil)

// NewSequence returns a postgres backed key sequence
func NewSequence(db repokit.TxRunner) *Sequence {
	if db == nil {
		panic("dimensions.Sequence requires a non nil TxRunner")
	}
	return &Sequence{DB: db}
}

// Next implements keyseq.Sequence
func (s *Sequence) Next(ctx context.Context, name string, n int) (int64, error) {
	if n <= 0 {
		return 0, perr.InvalidArgf("keyseq: block size must be positive, got %d", n)
	}
	var last int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		last, err = store.Scalar[int64](ctx, q, `
			INSERT INTO surrogate_sequences (name, last_value)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE
			SET last_value = surrogate_sequences.last_value + EXCLUDED.last_value
			RETURNING last_value
		`, name, int64(n))
		return err
	})
	if err != nil {
		return 0, perr.FromPostgresf(err, "keyseq: reserve %d on %s", n, name)
	}
	return last - int64(n) + 1, nil
}
