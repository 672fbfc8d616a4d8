// Package api provides the HTTP binding for the time-bank ledger.
//
// The binding adapts transport to the core's operations and nothing more:
// caller identity arrives already authenticated in the X-Hourbank-Caller
// header (reconciling transport identity with registered users is the
// authentication collaborator's job, not the ledger's).
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hourbank-network/hourbank/internal/app/bank"
	"github.com/hourbank-network/hourbank/internal/domain"
)

// CallerHeader carries the authenticated caller's user id.
const CallerHeader = "X-Hourbank-Caller"

// Server is the time-bank HTTP API server.
type Server struct {
	bank           *bank.Bank
	metricsEnabled bool
}

// NewServer creates a new API server over a bank.
func NewServer(b *bank.Bank) *Server {
	return &Server{bank: b}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Post("/users", s.handleRegisterUser)
		r.Get("/users/{id}", s.handleGetUser)

		r.Post("/services", s.handleOfferService)
		r.Get("/services/{id}", s.handleGetService)
		r.Post("/services/{id}/accept", s.handleAcceptService)
		r.Post("/services/{id}/complete", s.handleCompleteService)
		r.Post("/services/{id}/rate", s.handleRateService)

		r.Post("/projects", s.handleCreateProject)
		r.Get("/projects/{id}", s.handleGetProject)
		r.Post("/projects/{id}/contribute", s.handleContribute)

		r.Get("/journal", s.handleJournal)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a ledger error onto an HTTP status and JSON body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]interface{}{
		"error": map[string]interface{}{
			"message": err.Error(),
			"kind":    kindFor(err),
		},
	})
}

// statusFor maps the error taxonomy to HTTP statuses. Every rejection is
// local and retryable with corrected input.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func kindFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "internal"
	}
}
