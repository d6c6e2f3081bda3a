package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRecoverer returns a middleware that turns a panic in a downstream handler
// into a logged error and a JSON 500 response. It plays the role of chi's
// Recoverer, which writes a plain-text body.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
// If the handler had already started its response, the panic is only logged:
// the status line is on the wire and cannot be replaced.
func NewRecoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.ErrorContext(r.Context(), "panic recovered",
					"panic", rvr,
					"path", r.URL.Path,
					"request_id", chimiddleware.GetReqID(r.Context()),
					"response_started", ww.Status() != 0,
					"stack", string(debug.Stack()),
				)
				if ww.Status() != 0 {
					return
				}
				writeError(ww, http.StatusInternalServerError, "internal_error", "internal server error")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
