// Package handler implements the HTTP handlers for the name service.
// All handlers are methods on Server. Methods are split into files by
// endpoint (health.go, name.go, openapi.go) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NameGenerator defines the operation the name handler depends on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock instead of a running worker pool.
// *worker.Pool and *service.NameService both satisfy it.
type NameGenerator interface {
	Generate(ctx context.Context, prefix *string) (string, error)
}

// Server serves every API endpoint.
type Server struct {
	names NameGenerator
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(names NameGenerator, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{names: names, log: log}
}

// Handler returns the API router. Unknown paths and unsupported methods get
// JSON error bodies, like every other response.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Get("/healthz", s.GetHealth)
	r.Get("/generate_name", s.GenerateName)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	return r
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody(codeNotFound, "route not found"))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody(codeMethodNotAllowed, "method not allowed"))
}
