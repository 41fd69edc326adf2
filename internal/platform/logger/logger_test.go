package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]zerolog.Level{
		"trace":     zerolog.TraceLevel,
		"INFO":      zerolog.InfoLevel,
		" warning ": zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"":          zerolog.DebugLevel,
		"loud":      zerolog.DebugLevel,
	} {
		require.Equal(t, want, parseLevel(in), in)
	}
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(ln), &m), ln)
		out = append(out, m)
	}
	return out
}

// not parallel: swaps the process root
func TestC_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "info", Format: "json", Service: "starforge", Writer: &buf, StaticFields: map[string]string{"env": "test"}})
	prev := root.Swap(&l)
	t.Cleanup(func() { root.Store(prev) })

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "rid-9")
	ctx = WithField(ctx, "run_id", "r-1")
	staged := WithField(ctx, "stage", "STAGING")
	_ = WithField(ctx, "stage", "") // no-op

	C(staged).Info().Msg("staged")
	C(ctx).Info().Msg("run")
	Named("http").Debug().Msg("dropped by level")
	Named("http").Warn().Msg("slow")

	got := lines(t, &buf)
	require.Len(t, got, 3)
	require.Equal(t, "rid-9", got[0]["request_id"])
	require.Equal(t, "r-1", got[0]["run_id"])
	require.Equal(t, "STAGING", got[0]["stage"])
	require.Equal(t, "starforge", got[0]["service"])
	require.Equal(t, "test", got[0]["env"])
	require.NotContains(t, got[1], "stage", "WithField does not leak into the parent ctx")
	require.Equal(t, "http", got[2]["component"])
}

func TestBuild_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := build(Options{Level: "debug", Format: "console", Writer: &buf, Component: "cli"})
	l.Debug().Str("k", "v").Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "k=")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "starforge-api")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	o := FromEnv()
	require.Equal(t, "warn", o.Level)
	require.Equal(t, "json", o.Format)
	require.Equal(t, "starforge-api", o.Service)
	require.Equal(t, 5, o.SampleEvery)
}
