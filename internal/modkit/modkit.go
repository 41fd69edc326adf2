// Package modkit wires API modules: shared deps, per-module options and route mounting
package modkit

import (
	phttp "starforge/internal/platform/net/http"
)

// Module is an API module, mounted under its own prefix
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	// Ports exposes the module's service for tests and cross wiring, may be nil
	Ports() any
}
