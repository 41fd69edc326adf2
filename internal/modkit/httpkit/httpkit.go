// Package httpkit is what API modules use to mount handlers, without importing the platform http packages
package httpkit

import (
	"net/http"

	phttp "starforge/internal/platform/net/http"
	"starforge/internal/platform/net/http/bind"
)

type (
	Router  = phttp.Router
	Handler = phttp.Handler

	// Response lets a handler pick its status, return it as the result
	Response = phttp.Response
)

// Get mounts a body-less handler; its result lands in the envelope's data
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.JSONHandlerNoBody(h))
}

// PostJSON mounts a handler for a decoded and validated T body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// Validate checks v's validate tags, for inputs read from the query string
func Validate(v any) error { return bind.Validate(v) }
