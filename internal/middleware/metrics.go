package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestObserver receives one call per finished request.
// *metrics.Metrics implements it.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// unmatchedRoute labels requests that chi could not route, so arbitrary paths
// never become label values.
const unmatchedRoute = "unmatched"

// NewMetrics returns a middleware that reports method, chi route pattern,
// status and latency for every request. Mount it on the chi router with Use so
// the route pattern is known once the request has been served.
func NewMetrics(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			obs.ObserveRequest(r.Method, routeLabel(r), status, time.Since(start))
		})
	}
}

// routeLabel returns the matched chi pattern. A request that only reached a
// mount point ("/*") and matched nothing inside the mounted router counts as
// unmatched.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.RoutePatterns) == 0 {
		return unmatchedRoute
	}
	if last := rctx.RoutePatterns[len(rctx.RoutePatterns)-1]; strings.HasSuffix(last, "/*") {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}
