package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/name-service/internal/domain"
	"github.com/pkordes/name-service/internal/worker"
)

// NameResponse is the body of a successful GET /generate_name.
type NameResponse struct {
	Name string `json:"name"`
}

// GenerateNameParams holds the query parameters of GET /generate_name.
type GenerateNameParams struct {
	// StartsWith is a case-insensitive prefix filter. Nil means no filter.
	StartsWith *string
}

// GenerateName handles GET /generate_name.
// Supports ?starts_with= (optional, case-insensitive prefix).
func (s *Server) GenerateName(w http.ResponseWriter, r *http.Request) {
	params := s.bindGenerateNameParams(r)

	name, err := s.names.Generate(r.Context(), params.StartsWith)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoMatch):
			writeJSON(w, http.StatusNotFound, errorBody(codeNoMatch, domain.ErrNoMatch.Error()))
		case errors.Is(err, worker.ErrStopped),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			writeJSON(w, http.StatusServiceUnavailable, errorBody(codeUnavailable, "service is shutting down or overloaded"))
		default:
			s.log.ErrorContext(r.Context(), "generate name failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody(codeInternal, "internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, NameResponse{Name: name})
}

// bindGenerateNameParams reads the query string. A malformed starts_with
// (e.g. repeated) is treated as absent rather than rejected.
func (s *Server) bindGenerateNameParams(r *http.Request) GenerateNameParams {
	var params GenerateNameParams
	err := runtime.BindQueryParameter("form", true, false, "starts_with", r.URL.Query(), &params.StartsWith)
	if err != nil {
		s.log.DebugContext(r.Context(), "ignoring malformed starts_with", "error", err)
		return GenerateNameParams{}
	}
	return params
}
