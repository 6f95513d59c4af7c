package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lawtocode/clearance/internal/dcl"
	"github.com/lawtocode/clearance/internal/telemetry"
)

// parseRequest represents the request body for POST /v1/dcl/parse
type parseRequest struct {
	LawTitle string `json:"law_title,omitempty"`
	LawText  string `json:"law_text"`
}

// handleParse handles POST /v1/dcl/parse
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	schema, ok := s.parseSchema(w, r, req.LawTitle, req.LawText)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, schema)
}

// parseSchema parses law text and writes the error response on failure.
func (s *Server) parseSchema(w http.ResponseWriter, r *http.Request, title, text string) (*dcl.Schema, bool) {
	if strings.TrimSpace(text) == "" {
		BadRequestError(w, r, ErrCodeMissingField, "law_text is required")
		return nil, false
	}

	schema, err := dcl.Parse(title, text)
	if err != nil {
		telemetry.ParseErrors.Inc()
		var parseErr *dcl.ParseError
		if errors.As(err, &parseErr) {
			BadRequestError(w, r, ErrCodeParseError, parseErr.Error())
		} else {
			BadRequestError(w, r, ErrCodeParseError, "law text could not be parsed")
		}
		return nil, false
	}

	if len(schema.Rules) > s.opts.MaxRules {
		BadRequestError(w, r, ErrCodeTooManyRules, "law text exceeds the rule limit")
		return nil, false
	}
	return schema, true
}
