// Package schema carries the warehouse DDL
package schema

import (
	"context"
	_ "embed"
	"strings"

	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/store"
)

var (
	//go:embed warehouse.sql
	warehouse string

	//go:embed mirror.sql
	mirror string
)

// SQL returns the warehouse DDL
func SQL() string { return warehouse }

// Statements splits the warehouse DDL into single statements, comments dropped
func Statements() []string { return split(warehouse) }

// MirrorStatements returns the clickhouse DDL of the analytics mirror
func MirrorStatements() []string { return split(mirror) }

func split(ddl string) []string {
	var out []string
	for _, part := range strings.Split(ddl, ";") {
		var b strings.Builder
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if st := strings.TrimSpace(b.String()); st != "" {
			out = append(out, st)
		}
	}
	return out
}

// Apply creates every missing warehouse table and index in one transaction
func Apply(ctx context.Context, tx store.TxRunner) error {
	err := tx.Tx(ctx, func(q store.RowQuerier) error {
		for _, st := range Statements() {
			if _, err := q.Exec(ctx, st); err != nil {
				return err
			}
		}
		return nil
	})
	return perr.FromPostgres(err, "schema: apply")
}
