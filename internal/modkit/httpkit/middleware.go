package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "incidencia/internal/platform/net/http"
	"incidencia/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORS    middleware.CORSOptions
	Timeout time.Duration
	Slow    time.Duration
	// Observe receives method, route pattern, status and latency per request
	Observe func(method, route string, status int, elapsed time.Duration)
}

// CommonStack is the per-API middleware chain, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow, Observe: o.Observe}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(a middleware.Authenticator) func(http.Handler) http.Handler {
	return middleware.Auth(a, phttp.JSON)
}
