package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lawtocode/clearance/internal/store"
)

// handleCreateUseCase handles POST /v1/usecases (admin only).
func (s *Server) handleCreateUseCase(w http.ResponseWriter, r *http.Request) {
	var params store.UseCaseParams
	if !s.decodeBody(w, r, &params) {
		return
	}

	if strings.TrimSpace(params.SystemName) == "" {
		BadRequestError(w, r, ErrCodeMissingField, "system_name is required")
		return
	}

	uc, err := s.store.CreateUseCase(r.Context(), params)
	if err != nil {
		InternalError(w, r, "use case registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, uc)
}

// handleListUseCases handles GET /v1/usecases with weak ETag support.
func (s *Server) handleListUseCases(w http.ResponseWriter, r *http.Request) {
	usecases, err := s.store.ListUseCases(r.Context())
	if err != nil {
		InternalError(w, r, "use case lookup failed")
		return
	}
	writeJSONWithETag(w, r, map[string]any{"usecases": usecases})
}

// handleGetUseCase handles GET /v1/usecases/{id}
func (s *Server) handleGetUseCase(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		BadRequestError(w, r, ErrCodeBadRequest, "id must be an integer")
		return
	}

	uc, err := s.store.GetUseCase(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "no use case with that id")
			return
		}
		InternalError(w, r, "use case lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, uc)
}
