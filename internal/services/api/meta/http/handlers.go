// Package http serves the meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"starforge/internal/core/version"
	"starforge/internal/modkit/httpkit"
	ptime "starforge/internal/platform/time"
)

// Pinger is a store readiness can check
type Pinger interface {
	Ping(context.Context) error
}

// Deps are what the meta handlers report on; a nil store is skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          Pinger
	CH          Pinger
}

// Register mounts /health, /ready, /version and /service
func Register(r httpkit.Router, d Deps) {
	h := handlers{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", h.service)
}

type handlers struct{ deps Deps }

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"starforge-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now" example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is one store's probe result: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse is ok, degraded (no warehouse configured) or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now" example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse is the service name and uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name" example:"starforge-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime" example:"300"`
}

// health handles GET /meta/health
// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Started: ptime.Stamp(h.deps.StartedAt), Now: ptime.Stamp(ptime.NowUTC())}, nil
}

// ready handles GET /meta/ready, a failing store answers 503
// @Summary Readiness with store checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	probe := func(name string, p Pinger) ReadyCheck {
		if p == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if err := p.Ping(ctx); err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	}
	pg, ch := probe("pg", h.deps.PG), probe("ch", h.deps.CH)

	// the mirror is optional, the warehouse is not
	resp := ReadyResponse{Status: "ok", Checks: []ReadyCheck{pg, ch}, Now: ptime.Stamp(ptime.NowUTC())}
	switch {
	case pg.Status == "fail" || ch.Status == "fail":
		resp.Status = "fail"
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: resp}, nil
	case pg.Status == "skipped":
		resp.Status = "degraded"
	}
	return resp, nil
}

// service handles GET /meta/service
// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: ptime.Stamp(h.deps.StartedAt),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}
