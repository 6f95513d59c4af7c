package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/lawtocode/clearance/internal/dcl"
	"github.com/lawtocode/clearance/internal/engine"
	"github.com/lawtocode/clearance/internal/proof"
	"github.com/lawtocode/clearance/internal/store"
	"github.com/lawtocode/clearance/internal/telemetry"
	"github.com/lawtocode/clearance/internal/webhook"
)

// checkRequest represents the request body for POST /v1/clearance/check.
// Rules arrive either as raw law text or as a schema previously returned
// by /v1/dcl/parse; law_text wins when both are present.
type checkRequest struct {
	LawTitle string          `json:"law_title,omitempty"`
	LawText  string          `json:"law_text,omitempty"`
	Schema   *dcl.Schema     `json:"schema,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// handleCheck handles POST /v1/clearance/check
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	schema, ok := s.resolveSchema(w, r, &req)
	if !ok {
		return
	}

	if len(req.Data) == 0 {
		BadRequestError(w, r, ErrCodeMissingField, "data is required")
		return
	}
	var data any
	if err := json.Unmarshal(req.Data, &data); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "data is not valid JSON")
		return
	}

	report := engine.Evaluate(schema, data)
	telemetry.ClearanceChecks.WithLabelValues(string(report.Verdict)).Inc()

	logEntry, err := proof.Build(schema, data, report)
	if err != nil {
		InternalError(w, r, "proof hash failed")
		return
	}

	rec := store.ProofRecord{
		ID:        uuid.NewString(),
		LawTitle:  logEntry.LawTitle,
		Verdict:   string(logEntry.Verdict),
		ProofHash: logEntry.ProofHash,
		Log:       logEntry,
		CreatedAt: logEntry.GeneratedAt,
	}
	if err := s.store.SaveProof(r.Context(), rec); err != nil {
		// The verdict is still valid; persistence is best-effort.
		log.Printf("[api] proof save failed: hash=%s error=%v", logEntry.ProofHash, err)
	}

	s.notify(r, logEntry)

	writeJSON(w, http.StatusOK, logEntry)
}

// resolveSchema produces the schema for a check request, from law text or
// an inline schema.
func (s *Server) resolveSchema(w http.ResponseWriter, r *http.Request, req *checkRequest) (*dcl.Schema, bool) {
	if req.LawText != "" {
		return s.parseSchema(w, r, req.LawTitle, req.LawText)
	}
	if req.Schema == nil {
		BadRequestError(w, r, ErrCodeMissingField, "either law_text or schema is required")
		return nil, false
	}
	if len(req.Schema.Rules) == 0 {
		BadRequestError(w, r, ErrCodeParseError, "schema contains no rules")
		return nil, false
	}
	if len(req.Schema.Rules) > s.opts.MaxRules {
		BadRequestError(w, r, ErrCodeTooManyRules, "schema exceeds the rule limit")
		return nil, false
	}
	return req.Schema, true
}

func (s *Server) notify(r *http.Request, logEntry *proof.Log) {
	event := webhook.Event{
		Type:      webhook.EventChecked,
		Timestamp: time.Now().UTC(),
		LawTitle:  logEntry.LawTitle,
		Verdict:   string(logEntry.Verdict),
		ProofHash: logEntry.ProofHash,
		RuleCount: len(logEntry.Schema.Rules),
		RequestID: middleware.GetReqID(r.Context()),
	}
	s.dispatcher.Dispatch(event)

	if logEntry.Verdict == engine.VerdictNonCompliant {
		event.Type = webhook.EventFailed
		s.dispatcher.Dispatch(event)
	}
}
