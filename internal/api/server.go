// Package api exposes the clearance service over HTTP: the DCL parse and
// clearance check endpoints, the stored proof and use-case registry
// endpoints, and a minimal browser form at the root path.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/lawtocode/clearance/internal/store"
	"github.com/lawtocode/clearance/internal/telemetry"
	"github.com/lawtocode/clearance/internal/webhook"
)

// Options carries the request-handling limits and credentials the server
// enforces.
type Options struct {
	AdminAPIKey    string
	RateLimitPerIP int
	MaxBodyBytes   int64
	MaxRules       int
}

type Server struct {
	store      store.Store
	dispatcher *webhook.Dispatcher
	opts       Options
}

// NewServer creates an API server. dispatcher may be nil when no webhook
// endpoint is configured.
func NewServer(st store.Store, dispatcher *webhook.Dispatcher, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.MaxRules <= 0 {
		opts.MaxRules = 200
	}
	return &Server{store: st, dispatcher: dispatcher, opts: opts}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(telemetry.Middleware)
	if s.opts.RateLimitPerIP > 0 {
		r.Use(httprate.LimitByIP(s.opts.RateLimitPerIP, time.Minute))
	}

	// health
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// browser form
	r.Get("/", s.handleIndex)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/dcl/parse", s.handleParse)
		r.Post("/clearance/check", s.handleCheck)

		r.Get("/proofs", s.handleListProofs)
		r.Get("/proofs/{hash}", s.handleGetProof)

		r.Get("/usecases", s.handleListUseCases)
		r.Get("/usecases/{id}", s.handleGetUseCase)
		r.Post("/usecases", s.authAdmin(s.handleCreateUseCase))
	})

	return r
}

// ---- middleware & helpers ----

func (s *Server) authAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Only the "Bearer <token>" scheme is accepted.
		token, ok := strings.CutPrefix(strings.TrimSpace(r.Header.Get("Authorization")), "Bearer ")
		got := strings.TrimSpace(token)
		if !ok || got == "" {
			UnauthorizedError(w, r, "missing bearer token")
			return
		}
		// constant-time compare
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.AdminAPIKey)) != 1 {
			ForbiddenError(w, r, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// decodeBody decodes a JSON request body into v, enforcing the body size
// limit. The caller gets a response written on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RequestTooLargeError(w, r, "request body too large")
			return false
		}
		BadRequestError(w, r, ErrCodeInvalidJSON, "request body is not valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONWithETag serves v with a weak ETag over its encoded form and
// honors If-None-Match.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	blob, err := json.Marshal(v)
	if err != nil {
		InternalError(w, r, "response encoding failed")
		return
	}
	etag := fmt.Sprintf(`W/"%x"`, xxhash.Sum64(blob))
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	_, _ = w.Write(blob)
}
