package middleware

import (
	"net/http"
	"time"

	"starforge/internal/platform/logger"
	pnet "starforge/internal/platform/net"
)

// AccessLogOptions tunes AccessLogZerolog
type AccessLogOptions struct {
	// Slow logs requests at or over it as warn, 0 never does
	Slow time.Duration
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// AccessLogZerolog writes one line per request through logger.C, errors at warn or error level
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			r = r.WithContext(pnet.TrackCaller(r.Context()))
			start := time.Now()
			next.ServeHTTP(sw, r)
			took := time.Since(start)

			log := logger.C(r.Context())
			ev := log.Info()
			switch {
			case sw.status >= 500:
				ev = log.Error()
			case sw.status >= 400, opt.Slow > 0 && took >= opt.Slow:
				ev = log.Warn()
			}
			if c := pnet.Caller(r.Context()); c != "" {
				ev = ev.Str("caller", c)
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("elapsed", took).
				Msg("http: request")
		})
	}
}
