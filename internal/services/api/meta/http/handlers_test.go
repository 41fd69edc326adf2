package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"starforge/internal/modkit/httpkit"
	phttp "starforge/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func get[T any](t *testing.T, d Deps, path string) (int, T) {
	t.Helper()
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/meta", func(r httpkit.Router) { Register(r, d) })

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env.Data
}

func TestReady(t *testing.T) {
	t.Parallel()

	down := fakePinger{err: errors.New("refused")}
	cases := []struct {
		name   string
		pg, ch Pinger
		code   int
		want   string
	}{
		{"pg only", fakePinger{}, nil, stdhttp.StatusOK, "ok"},
		{"both up", fakePinger{}, fakePinger{}, stdhttp.StatusOK, "ok"},
		{"pg down", down, nil, stdhttp.StatusServiceUnavailable, "fail"},
		{"ch down", fakePinger{}, down, stdhttp.StatusServiceUnavailable, "fail"},
		{"no warehouse", nil, nil, stdhttp.StatusOK, "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			code, got := get[ReadyResponse](t, Deps{ServiceName: "starforge-api", StartedAt: time.Now(), PG: tc.pg, CH: tc.ch}, "/meta/ready")
			require.Equal(t, tc.code, code)
			require.Equal(t, tc.want, got.Status, got.Checks)
		})
	}
}

func TestHealthAndService(t *testing.T) {
	t.Parallel()

	d := Deps{ServiceName: "starforge-api", StartedAt: time.Now().Add(-time.Minute)}

	code, h := get[HealthResponse](t, d, "/meta/health")
	require.Equal(t, stdhttp.StatusOK, code)
	require.True(t, h.OK)
	require.Equal(t, "starforge-api", h.Service)

	_, s := get[ServiceResponse](t, d, "/meta/service")
	require.GreaterOrEqual(t, s.Uptime, int64(60))

	_, v := get[map[string]any](t, d, "/meta/version")
	require.Equal(t, "starforge", v["service"])
}
