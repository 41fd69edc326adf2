package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"sync/atomic"
	"time"

	"starforge/internal/platform/config"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server is the API's http.Server over a chi mux
type Server struct {
	addr  string
	bound atomic.Pointer[string]
	mux   *chi.Mux
	srv   *stdhttp.Server
}

// NewServer reads API_PORT, API_READ_TIMEOUT and API_WRITE_TIMEOUT from cfg
// opts run against the mux before anything is mounted
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayAddr("API_PORT", ":4000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.MayDuration("API_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      cfg.MayDuration("API_WRITE_TIMEOUT", 60*time.Second),
		},
	}
}

// Router returns the mux behind the Router seam
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the listening address once Run has bound, the configured one before
func (s *Server) Addr() string {
	if a := s.bound.Load(); a != nil {
		return *a
	}
	return s.addr
}

// Run listens and serves until Shutdown
func (s *Server) Run(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.addr)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "http: listen %s", s.addr)
	}
	a := ln.Addr().String()
	s.bound.Store(&a)
	logger.Named("http").Info().Str("addr", a).Msg("http listening")

	if err := s.srv.Serve(ln); !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
