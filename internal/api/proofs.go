package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lawtocode/clearance/internal/proof"
	"github.com/lawtocode/clearance/internal/store"
)

const defaultProofLimit = 50

// proofEnvelope wraps a stored proof record with its current
// verification status, so tampering shows up on read.
type proofEnvelope struct {
	store.ProofRecord
	Verified bool `json:"verified"`
}

// handleListProofs handles GET /v1/proofs?limit=N
func (s *Server) handleListProofs(w http.ResponseWriter, r *http.Request) {
	limit := defaultProofLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			BadRequestError(w, r, ErrCodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.store.ListProofs(r.Context(), limit)
	if err != nil {
		InternalError(w, r, "proof lookup failed")
		return
	}

	envelopes := make([]proofEnvelope, 0, len(records))
	for _, rec := range records {
		envelopes = append(envelopes, proofEnvelope{ProofRecord: rec, Verified: proof.Verify(rec.Log)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"proofs": envelopes})
}

// handleGetProof handles GET /v1/proofs/{hash}
func (s *Server) handleGetProof(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	rec, err := s.store.GetProofByHash(r.Context(), hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "no proof with that hash")
			return
		}
		InternalError(w, r, "proof lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, proofEnvelope{ProofRecord: *rec, Verified: proof.Verify(rec.Log)})
}
