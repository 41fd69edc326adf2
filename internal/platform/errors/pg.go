package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the warehouse loads run into
var sqlStateCodes = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey, // unique_violation
	"23503": ErrorCodeInvalidArgument,
	"23502": ErrorCodeValidation,
	"23514": ErrorCodeValidation,
	"22001": ErrorCodeInvalidArgument,
	"22P02": ErrorCodeInvalidArgument,
	"22003": ErrorCodeInvalidArgument, // numeric out of range, i.e. a price overflowing numeric(10,2)
	"25006": ErrorCodeUnavailable,
	"57P03": ErrorCodeUnavailable,
	"53300": ErrorCodeUnavailable, // too_many_connections
}

var retrySQLStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pg *pgconn.PgError
	if stderrs.As(err, &pg) {
		return pg, true
	}
	return nil, false
}

func pgCode(err error) ErrorCode {
	pg, ok := pgError(err)
	if !ok {
		return ErrorCodeDB
	}
	if c, ok := sqlStateCodes[pg.Code]; ok {
		return c
	}
	return ErrorCodeDB
}

// FromPostgres wraps a driver error with a code derived from its SQLSTATE; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, pgCode(err), msg)
}

// FromPostgresf is FromPostgres with formatting
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, pgCode(err), fmt.Sprintf(format, a...))
}

var retryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"could not obtain lock on row",
	"terminating connection due to administrator command",
}

// IsRetryable reports transient contention: serialization failures, deadlocks and lock timeouts.
// Context cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pg, ok := pgError(err); ok {
		return retrySQLStates[pg.Code]
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range retryText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
