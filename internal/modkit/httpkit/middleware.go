package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "starforge/internal/platform/net/http"
	"starforge/internal/platform/net/middleware"
)

// CommonStack is the middleware every /api route runs behind, no origins means any
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		// quality queries scan the staging table
		middleware.Throttle(16, 64, 5*time.Second),
		middleware.Timeout(30 * time.Second),
	}
}

// Auth guards routes with p, failures get the JSON error envelope
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
