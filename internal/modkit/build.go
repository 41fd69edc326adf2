package modkit

import (
	"fmt"
	"net/http"
	"strings"

	"starforge/internal/modkit/httpkit"
)

// Built is a module's resolved name, prefix and middleware
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// Build applies opts in order; later options win. A bad prefix is a wiring bug and panics
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if b.Name == "" {
		panic("modkit: module without a name")
	}
	if !strings.HasPrefix(b.Prefix, "/") || strings.HasSuffix(b.Prefix, "/") {
		panic(fmt.Sprintf("modkit: module %s: prefix %q must start and not end with /", b.Name, b.Prefix))
	}
	return b
}

// Mount routes register under the prefix behind the module middleware
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	r.Route(b.Prefix, func(sub httpkit.Router) {
		sub.Use(b.Mw...)
		register(sub)
	})
}
