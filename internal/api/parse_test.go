package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/lawtocode/clearance/internal/dcl"
)

func TestHandleParse(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	body := `{"law_title":"Employment Act","law_text":"require employee_age\nmin employee_age 18\n# comment line\nequals consent true"}`
	rr := doJSON(t, handler, http.MethodPost, "/v1/dcl/parse", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var schema dcl.Schema
	if err := json.NewDecoder(rr.Body).Decode(&schema); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if schema.LawTitle != "Employment Act" {
		t.Errorf("Expected law title 'Employment Act', got %q", schema.LawTitle)
	}
	if len(schema.Rules) != 3 {
		t.Fatalf("Expected 3 rules, got %d", len(schema.Rules))
	}
	if schema.Rules[0].ID != "r1" || schema.Rules[1].ID != "r2" || schema.Rules[2].ID != "r4" {
		t.Errorf("Rule IDs should carry source line numbers, got %s %s %s",
			schema.Rules[0].ID, schema.Rules[1].ID, schema.Rules[2].ID)
	}
	if schema.GeneratedAt.IsZero() {
		t.Error("Expected GeneratedAt to be set")
	}
}

func TestHandleParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode ErrorCode
	}{
		{name: "empty body", body: `{}`, wantCode: ErrCodeMissingField},
		{name: "blank law text", body: `{"law_text":"   \n  "}`, wantCode: ErrCodeMissingField},
		{name: "unknown keyword", body: `{"law_text":"forbid employee_age"}`, wantCode: ErrCodeParseError},
		{name: "comments only", body: `{"law_text":"# nothing here"}`, wantCode: ErrCodeParseError},
		{name: "bad json", body: `{"law_text":`, wantCode: ErrCodeInvalidJSON},
	}

	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, handler, http.MethodPost, "/v1/dcl/parse", tt.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rr.Code)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, resp.Code)
			}
			if resp.RequestID == "" {
				t.Error("Expected request_id in error envelope")
			}
		})
	}
}

func TestHandleParse_RuleLimit(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key", MaxRules: 2})

	body := `{"law_text":"require a\nrequire b\nrequire c"}`
	rr := doJSON(t, handler, http.MethodPost, "/v1/dcl/parse", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Code != ErrCodeTooManyRules {
		t.Errorf("Expected code TOO_MANY_RULES, got %s", resp.Code)
	}
}

func TestHandleParse_LineNumberInError(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	body := `{"law_text":"require employee_age\nmax employee_age eighteen"}`
	rr := doJSON(t, handler, http.MethodPost, "/v1/dcl/parse", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Code != ErrCodeParseError {
		t.Errorf("Expected code PARSE_ERROR, got %s", resp.Code)
	}
	// The message should point at the offending line.
	if want := "line 2"; !strings.Contains(resp.Message, want) {
		t.Errorf("Expected message to mention %q, got %q", want, resp.Message)
	}
}
