package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lawtocode/clearance/internal/store"
)

func adminPost(t *testing.T, handler http.Handler, path, body, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCreateUseCase(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	body := `{"system_name":"cv-ranker","purpose":"rank applicants","data_used":"CVs","safeguards":"human review"}`
	rr := adminPost(t, handler, "/v1/usecases", body, "test-key")

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var uc store.UseCase
	if err := json.NewDecoder(rr.Body).Decode(&uc); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if uc.ID == 0 {
		t.Error("Expected assigned ID")
	}
	if uc.SystemName != "cv-ranker" {
		t.Errorf("Expected system name 'cv-ranker', got %q", uc.SystemName)
	}
	if len(uc.RecordHash) != 64 {
		t.Errorf("Expected 64-char record hash, got %d chars", len(uc.RecordHash))
	}
	if uc.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestCreateUseCase_MissingSystemName(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	rr := adminPost(t, handler, "/v1/usecases", `{"purpose":"rank applicants"}`, "test-key")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Code != ErrCodeMissingField {
		t.Errorf("Expected code MISSING_FIELD, got %s", resp.Code)
	}
}

func TestGetUseCase(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	rr := adminPost(t, handler, "/v1/usecases", `{"system_name":"cv-ranker"}`, "test-key")
	var created store.UseCase
	json.NewDecoder(rr.Body).Decode(&created)

	rr = doJSON(t, handler, http.MethodGet, "/v1/usecases/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var uc store.UseCase
	json.NewDecoder(rr.Body).Decode(&uc)
	if uc.ID != created.ID || uc.RecordHash != created.RecordHash {
		t.Errorf("Fetched record does not match created one: %+v vs %+v", uc, created)
	}
}

func TestGetUseCase_Errors(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	rr := doJSON(t, handler, http.MethodGet, "/v1/usecases/999", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown id, got %d", rr.Code)
	}

	rr = doJSON(t, handler, http.MethodGet, "/v1/usecases/abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for non-numeric id, got %d", rr.Code)
	}
}

func TestListUseCases_ETag(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})
	adminPost(t, handler, "/v1/usecases", `{"system_name":"cv-ranker"}`, "test-key")

	rr := doJSON(t, handler, http.MethodGet, "/v1/usecases", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	etag := rr.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("Expected weak ETag, got %q", etag)
	}

	// Replay with If-None-Match: unchanged list means 304.
	req := httptest.NewRequest(http.MethodGet, "/v1/usecases", nil)
	req.Header.Set("If-None-Match", etag)
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req)
	if rr2.Code != http.StatusNotModified {
		t.Errorf("Expected status 304, got %d", rr2.Code)
	}

	// New registration changes the ETag.
	adminPost(t, handler, "/v1/usecases", `{"system_name":"loan-scorer"}`, "test-key")
	req = httptest.NewRequest(http.MethodGet, "/v1/usecases", nil)
	req.Header.Set("If-None-Match", etag)
	rr3 := httptest.NewRecorder()
	handler.ServeHTTP(rr3, req)
	if rr3.Code != http.StatusOK {
		t.Errorf("Expected status 200 after list changed, got %d", rr3.Code)
	}
}

func TestListProofs(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	for _, data := range []string{
		`{"employee_age": 20, "consent": true}`,
		`{"employee_age": 30, "consent": true}`,
	} {
		rr := doJSON(t, handler, http.MethodPost, "/v1/clearance/check", checkBody(data))
		if rr.Code != http.StatusOK {
			t.Fatalf("check: expected status 200, got %d", rr.Code)
		}
	}

	rr := doJSON(t, handler, http.MethodGet, "/v1/proofs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Proofs []proofEnvelope `json:"proofs"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Proofs) != 2 {
		t.Fatalf("Expected 2 proofs, got %d", len(resp.Proofs))
	}
	for _, p := range resp.Proofs {
		if !p.Verified {
			t.Errorf("Proof %s should verify", p.ProofHash)
		}
	}

	rr = doJSON(t, handler, http.MethodGet, "/v1/proofs?limit=1", "")
	json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.Proofs) != 1 {
		t.Errorf("Expected limit to apply, got %d proofs", len(resp.Proofs))
	}

	rr = doJSON(t, handler, http.MethodGet, "/v1/proofs?limit=zero", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad limit, got %d", rr.Code)
	}
}

func TestGetProof_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t, Options{AdminAPIKey: "test-key"})

	rr := doJSON(t, handler, http.MethodGet, "/v1/proofs/"+strings.Repeat("0", 64), "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}
