package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Column is one insert column, Cast is an optional sql type for its placeholder
type Column struct {
	Name string
	Cast string
}

// Cols builds plain columns from names
func Cols(names ...string) []Column {
	out := make([]Column, len(names))
	for i, n := range names {
		out[i] = Column{Name: n}
	}
	return out
}

// InsertSQL renders a multi row insert with rows value tuples
func InsertSQL(table string, cols []Column, rows int) string {
	var b strings.Builder
	b.Grow(64 + rows*len(cols)*6)
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Name)
	}
	b.WriteString(") VALUES ")
	n := 1
	for r := range rows {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for i, c := range cols {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			if c.Cast != "" {
				b.WriteString("::")
				b.WriteString(c.Cast)
			}
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// InsertRows writes rows into table with one statement per chunk rows
// every row must carry exactly len(cols) values
func InsertRows(ctx context.Context, q RowQuerier, table string, cols []Column, rows [][]any, chunk int) (int64, error) {
	if chunk <= 0 {
		chunk = 1000
	}
	// postgres caps bind parameters at 65535
	if lim := 65535 / max(len(cols), 1); chunk > lim {
		chunk = lim
	}
	var total int64
	for lo := 0; lo < len(rows); lo += chunk {
		hi := min(lo+chunk, len(rows))
		args := make([]any, 0, (hi-lo)*len(cols))
		for i := lo; i < hi; i++ {
			if len(rows[i]) != len(cols) {
				return total, fmt.Errorf("insert %s: row %d has %d values, want %d", table, i, len(rows[i]), len(cols))
			}
			args = append(args, rows[i]...)
		}
		tag, err := q.Exec(ctx, InsertSQL(table, cols, hi-lo), args...)
		if err != nil {
			return total, err
		}
		if tag != nil {
			total += tag.RowsAffected()
		}
	}
	return total, nil
}
