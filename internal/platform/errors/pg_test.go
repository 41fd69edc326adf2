package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestFromPostgres_Codes(t *testing.T) {
	t.Parallel()

	cases := map[string]ErrorCode{
		"23505": ErrorCodeDuplicateKey,
		"23503": ErrorCodeInvalidArgument,
		"23502": ErrorCodeValidation,
		"22003": ErrorCodeInvalidArgument,
		"57P03": ErrorCodeUnavailable,
		"42P01": ErrorCodeDB,
	}
	for state, want := range cases {
		err := FromPostgresf(&pgconn.PgError{Code: state}, "load %s", "dim_product")
		require.Equal(t, want, CodeOf(err), state)
		require.Contains(t, err.Error(), "load dim_product")
	}

	require.Equal(t, ErrorCodeDB, CodeOf(FromPostgres(stderrs.New("eof"), "read")))
	require.NoError(t, FromPostgres(nil, "x"))
	require.NoError(t, FromPostgresf(nil, "x"))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	wrapped := func(code string) error {
		return fmt.Errorf("tx: %w", FromPostgres(&pgconn.PgError{Code: code}, "commit"))
	}
	require.True(t, IsRetryable(wrapped("40001")))
	require.True(t, IsRetryable(wrapped("40P01")))
	require.False(t, IsRetryable(wrapped("23505")))
	require.True(t, IsRetryable(stderrs.New("commit unexpectedly resulted in rollback")))
	require.False(t, IsRetryable(stderrs.New("syntax error")))
	require.False(t, IsRetryable(fmt.Errorf("stage: %w", context.DeadlineExceeded)))
	require.False(t, IsRetryable(nil))
	require.True(t, Retryable(wrapped("55P03")))
}
