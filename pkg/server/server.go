// Package server exposes the agent over HTTP: POST /run executes one
// browsing run to completion and returns its outcome, GET /health is a
// liveness probe.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/entrhq/gurney/pkg/config"
	"github.com/entrhq/gurney/pkg/logging"
	"github.com/entrhq/gurney/pkg/run"
)

// RunRequest is the caller-facing request shape.
type RunRequest struct {
	Prompt   string `json:"prompt"`
	URL      string `json:"url,omitempty"`
	MaxSteps int    `json:"max_steps,omitempty"`
}

// RunResponse is the caller-facing response shape. Success false with
// an empty error means the step budget was exhausted; any other failure
// populates Error.
type RunResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RunFunc executes one full agent run. The server owns none of the run
// machinery; entrypoints supply a closure that launches a browser,
// builds the loop, and returns its outcome.
type RunFunc func(ctx context.Context, session run.Session) run.Outcome

// Server handles HTTP requests for agent runs.
type Server struct {
	cfg   *config.Config
	runFn RunFunc
	log   *logging.Logger

	// Runs are serialized: each run exclusively owns a browser and the
	// process hosts one at a time.
	mu sync.Mutex
}

// New creates a server around the given run function.
func New(cfg *config.Config, runFn RunFunc, log *logging.Logger) *Server {
	return &Server{cfg: cfg, runFn: runFn, log: log}
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/run", s.handleRun)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, RunResponse{
			Success: false,
			Error:   "method not allowed",
		})
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RunResponse{
			Success: false,
			Error:   "invalid request body: " + err.Error(),
		})
		return
	}

	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, RunResponse{
			Success: false,
			Error:   "prompt is required",
		})
		return
	}
	if req.MaxSteps < 0 || req.MaxSteps > config.MaxStepsLimit {
		writeJSON(w, http.StatusBadRequest, RunResponse{
			Success: false,
			Error:   fmt.Sprintf("max_steps must be between 1 and %d", config.MaxStepsLimit),
		})
		return
	}

	session := run.Session{
		Goal:     req.Prompt,
		StartURL: req.URL,
		MaxSteps: s.cfg.ClampSteps(req.MaxSteps),
	}
	if session.StartURL == "" {
		session.StartURL = s.cfg.StartURL
	}

	runID := uuid.New().String()
	s.infof("run %s: goal=%q url=%s max_steps=%d", runID, session.Goal, session.StartURL, session.MaxSteps)

	s.mu.Lock()
	outcome := s.runFn(r.Context(), session)
	s.mu.Unlock()

	switch outcome.State {
	case run.StateSuccess:
		s.infof("run %s: success", runID)
		writeJSON(w, http.StatusOK, RunResponse{Success: true, Result: outcome.Result})
	case run.StateExhausted:
		s.infof("run %s: exhausted after %d steps", runID, session.MaxSteps)
		writeJSON(w, http.StatusOK, RunResponse{Success: false})
	default:
		s.errorf("run %s: fatal: %v", runID, outcome.Err)
		writeJSON(w, http.StatusInternalServerError, RunResponse{
			Success: false,
			Error:   outcome.Err.Error(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) infof(format string, v ...interface{}) {
	if s.log != nil {
		s.log.Infof(format, v...)
	}
}

func (s *Server) errorf(format string, v ...interface{}) {
	if s.log != nil {
		s.log.Errorf(format, v...)
	}
}
