package http_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"starforge/internal/platform/config"
	perr "starforge/internal/platform/errors"
	phttp "starforge/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestNewServer_Addr(t *testing.T) {
	t.Setenv("API_PORT", ":12345")

	called := false
	srv := phttp.NewServer(config.New(), func(*chi.Mux) { called = true })
	require.True(t, called)
	require.Equal(t, ":12345", srv.Addr())
}

func TestServer_RunAndShutdown(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:0")

	srv := phttp.NewServer(config.New())
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	require.Eventually(t, func() bool { return srv.Addr() != "127.0.0.1:0" }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestServer_RunListenError(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:abc")

	err := phttp.NewServer(config.New()).Run(context.Background())
	require.Error(t, err)
	require.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
}
