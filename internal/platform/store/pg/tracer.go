package pg

import (
	"context"
	"strings"

	"starforge/internal/platform/logger"

	"github.com/rs/zerolog"
)

// maxLoggedArgs caps the args printed per statement, bulk staging inserts bind thousands
const maxLoggedArgs = 24

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool

	// RunID and Stage are empty outside a refresh
	RunID string
	Stage string
}

// QueryTracer receives one event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer returns a tracer that logs every statement regardless of the root level
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if ev.RunID != "" {
		evt = evt.Str("run_id", ev.RunID)
	}
	if ev.Stage != "" {
		evt = evt.Str("stage", ev.Stage)
	}
	if len(ev.Args) > maxLoggedArgs {
		evt = evt.Int("arg_count", len(ev.Args))
	} else {
		evt = evt.Interface("args", ev.Args)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds every whitespace run into one space
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
