package apiserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// handleQuery runs the workflow for one query and returns the full
// response object, including the per-agent execution trace.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON with a query field")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "query must not be empty")
		return
	}

	start := time.Now()
	result := s.runner.Run(r.Context(), query)
	s.logger.Info("Workflow completed in %v with %d trace entries and %d errors",
		time.Since(start), len(result.ExecutionTrace.AgentsInvoked), len(result.Errors))

	s.writeJSON(w, http.StatusOK, result)
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}

// handleReady reports readiness: the graph backend is foundational, so
// readiness tracks its connectivity.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := s.graphClient != nil && s.graphClient.IsConnected()
	if ready {
		if err := s.graphClient.Ping(r.Context()); err != nil {
			ready = false
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, map[string]interface{}{"ready": ready})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
		fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
