// Package module wires the clickhouse mirror
package module

import (
	"starforge/internal/modkit"
	"starforge/internal/platform/config"
	phttp "starforge/internal/platform/net/http"
	"starforge/internal/services/mirror/domain"
	"starforge/internal/services/mirror/repo"
	"starforge/internal/services/mirror/service"
)

// Ports defines the mirror module ports
// Publisher is nil when no clickhouse seam is configured
type Ports struct {
	Publisher domain.PublisherPort
}

// Module implements the mirror module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// Options holds configuration options for the mirror
type Options struct {
	BatchSize int
}

// FromConfig reads mirror options with the CORE_MIRROR_ prefix
func FromConfig(cfg config.Conf) Options {
	return Options{BatchSize: cfg.Prefix("CORE_MIRROR_").MayInt("BATCH", 10000)}
}

// New constructs the mirror module
func New(deps modkit.Deps, opts Options) *Module {
	m := &Module{deps: deps}
	if deps.CH != nil {
		m.ports.Publisher = service.New(repo.NewCH(deps.CH), service.Config{BatchSize: opts.BatchSize})
	}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "mirror" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Typed returns the ports without the any wrapper
func (m *Module) Typed() Ports { return m.ports }

// MountRoutes is a no-op as the mirror has no routes
func (m *Module) MountRoutes(phttp.Router) {}

var _ modkit.Module = (*Module)(nil)
