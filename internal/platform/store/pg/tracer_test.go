package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"select 1":       "select 1",
		"  select   1  ": "select 1",
		"INSERT INTO staged_records\n\t(position)\r\n": "INSERT INTO staged_records (position)",
		"": "",
	}
	for in, want := range cases {
		if got := compact(in); got != want {
			t.Fatalf("compact(%q) = %q, want %q", in, got, want)
		}
	}
}

type logLine struct {
	Level     string  `json:"level"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Slow      bool    `json:"slow"`
	SQL       string  `json:"sql"`
	Args      []any   `json:"args"`
	ArgCount  int     `json:"arg_count"`
	RunID     string  `json:"run_id"`
	Stage     string  `json:"stage"`
	Error     string  `json:"error"`
	Component string  `json:"component"`
}

func emit(t *testing.T, ev QueryEvent) logLine {
	t.Helper()
	var buf bytes.Buffer
	Tracer(zerolog.New(&buf)).OnQuery(context.Background(), ev)
	var line logLine
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal: %v\nraw=%s", err, buf.String())
	}
	return line
}

func TestTracer_Fields(t *testing.T) {
	t.Parallel()

	line := emit(t, QueryEvent{
		SQL:       "SELECT  count(*)\n FROM  fact_sales",
		Args:      []any{1, "two"},
		ElapsedUS: 12500,
		Err:       errors.New("boom"),
		RunID:     "run-1",
		Stage:     "FACT_ASSEMBLING",
	})
	if line.Level != "info" || line.Component != "pg" {
		t.Fatalf("level/component = %q/%q", line.Level, line.Component)
	}
	if line.SQL != "SELECT count(*) FROM fact_sales" {
		t.Fatalf("sql = %q", line.SQL)
	}
	if line.ElapsedMS != 12.5 || len(line.Args) != 2 || line.Error != "boom" {
		t.Fatalf("unexpected line %+v", line)
	}
	if line.RunID != "run-1" || line.Stage != "FACT_ASSEMBLING" {
		t.Fatalf("run tags = %q/%q", line.RunID, line.Stage)
	}
}

func TestTracer_SlowIsWarn(t *testing.T) {
	t.Parallel()

	line := emit(t, QueryEvent{SQL: "select 1", Slow: true})
	if line.Level != "warn" || !line.Slow {
		t.Fatalf("slow line = %+v", line)
	}
	if line.RunID != "" || line.Stage != "" {
		t.Fatal("no run tags outside a refresh")
	}
}

func TestTracer_BulkArgsAreCounted(t *testing.T) {
	t.Parallel()

	args := make([]any, 17*100)
	line := emit(t, QueryEvent{SQL: "INSERT INTO staged_records", Args: args})
	if line.Args != nil || line.ArgCount != len(args) {
		t.Fatalf("args=%v arg_count=%d", line.Args, line.ArgCount)
	}
}
