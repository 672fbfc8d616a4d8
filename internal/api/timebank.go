package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hourbank-network/hourbank/internal/domain"
)

// ─── Request Parsing ────────────────────────────────────────────────────────

// caller resolves the authenticated caller id from the request header.
func caller(r *http.Request) (domain.UserID, error) {
	raw := r.Header.Get(CallerHeader)
	if raw == "" {
		return 0, fmt.Errorf("missing %s header: %w", CallerHeader, domain.ErrInvalidInput)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("malformed %s header %q: %w", CallerHeader, raw, domain.ErrInvalidInput)
	}
	return domain.UserID(id), nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("malformed id %q: %w", raw, domain.ErrInvalidInput)
	}
	return id, nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", domain.ErrInvalidInput)
	}
	return nil
}

// ─── Status ─────────────────────────────────────────────────────────────────

// handleStatus returns table sizes.
// GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	users, services, projects := s.bank.Counts()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"users":    users,
		"services": services,
		"projects": projects,
	})
}

// ─── Identity Registry ──────────────────────────────────────────────────────

// handleRegisterUser registers a participant.
// POST /api/users {"skills": ["coding"]}
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Skills []string `json:"skills"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.bank.RegisterUser(req.Skills)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user_id": id})
}

// handleGetUser returns a user profile.
// GET /api/users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := s.bank.User(domain.UserID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ─── Service Exchange ───────────────────────────────────────────────────────

// handleOfferService creates an offer by the caller.
// POST /api/services {"description": "...", "duration": 2}
func (s *Server) handleOfferService(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Description string `json:"description"`
		Duration    int64  `json:"duration"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.bank.OfferService(who, req.Description, req.Duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"service_id": id})
}

// handleGetService returns a service record.
// GET /api/services/{id}
func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	svc, err := s.bank.Service(domain.ServiceID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// handleAcceptService binds the caller as seeker.
// POST /api/services/{id}/accept
func (s *Server) handleAcceptService(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.bank.AcceptService(who, domain.ServiceID(id)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// handleCompleteService settles the exchange.
// POST /api/services/{id}/complete
func (s *Server) handleCompleteService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.bank.CompleteService(domain.ServiceID(id)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// handleRateService rates a completed service.
// POST /api/services/{id}/rate {"rating": 5}
func (s *Server) handleRateService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Rating int `json:"rating"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.bank.RateService(domain.ServiceID(id), req.Rating); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rated"})
}

// ─── Project Pool ───────────────────────────────────────────────────────────

// handleCreateProject creates a project.
// POST /api/projects {"name": "...", "total_hours": 10, ...}
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string   `json:"name"`
		Description    string   `json:"description"`
		RequiredSkills []string `json:"required_skills"`
		TotalHours     int64    `json:"total_hours"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.bank.CreateProject(req.Name, req.Description, req.RequiredSkills, req.TotalHours)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"project_id": id})
}

// handleGetProject returns a project with its contribution ledger.
// GET /api/projects/{id}
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	pid := domain.ProjectID(id)
	p, err := s.bank.Project(pid)
	if err != nil {
		writeError(w, err)
		return
	}

	contribs := s.bank.ProjectContributions(pid)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project":       p,
		"contributions": contribs,
		"contributed":   s.bank.ProjectContributed(pid),
	})
}

// handleContribute pools hours from the caller into a project.
// POST /api/projects/{id}/contribute {"hours": 5}
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Hours int64 `json:"hours"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.bank.ContributeToProject(who, domain.ProjectID(id), req.Hours); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "contributed"})
}

// ─── Journal ────────────────────────────────────────────────────────────────

// handleJournal returns recent journal entries, newest first.
// GET /api/journal?limit=50
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, fmt.Errorf("malformed limit %q: %w", raw, domain.ErrInvalidInput))
			return
		}
		limit = n
	}

	entries, err := s.bank.Journal(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
