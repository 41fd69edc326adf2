package repo

import (
	"context"
	"errors"
	"testing"

	"starforge/internal/platform/store"
	"starforge/internal/platform/store/schema"
)

type fakeCH struct {
	execs   []string
	inserts map[string]int
	err     error
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	if f.inserts == nil {
		f.inserts = map[string]int{}
	}
	f.inserts[table] += len(rows)
	return nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return f.err
}

func (f *fakeCH) Close() error { return nil }

var _ store.Clickhouse = (*fakeCH)(nil)

func TestCH_EnsureRunsOnce(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	w := NewCH(f)
	ctx := context.Background()
	if err := w.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := w.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(f.execs) != len(schema.MirrorStatements()) {
		t.Fatalf("execs = %d, want one pass", len(f.execs))
	}
}

func TestCH_EnsureError(t *testing.T) {
	t.Parallel()

	w := NewCH(&fakeCH{err: errors.New("denied")})
	if err := w.Ensure(context.Background()); err == nil {
		t.Fatal("expected ddl error")
	}
}

func TestCH_TruncateAndInsert(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	w := NewCH(f)
	ctx := context.Background()

	if err := w.Truncate(ctx, "users; drop table x"); err == nil {
		t.Fatal("unknown table should be rejected")
	}
	if err := w.Truncate(ctx, "fact_sales"); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if f.execs[0] != "TRUNCATE TABLE IF EXISTS fact_sales" {
		t.Fatalf("exec %q", f.execs[0])
	}
	if err := w.Insert(ctx, "fact_sales", nil); err != nil || f.inserts != nil {
		t.Fatalf("empty insert should be a no-op: %v %v", err, f.inserts)
	}
	if err := w.Insert(ctx, "fact_sales", [][]any{{1}, {2}}); err != nil || f.inserts["fact_sales"] != 2 {
		t.Fatalf("Insert: %v %v", err, f.inserts)
	}
}
