package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListRoutines returns the available automations.
func (s *Server) handleListRoutines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"routines": s.session.Routines()})
}

// handleRoutineHistory returns past routine executions.
func (s *Server) handleRoutineHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"runs": s.session.RoutineHistory()})
}

// handleRunRoutine executes an automation.
func (s *Server) handleRunRoutine(w http.ResponseWriter, r *http.Request) {
	run, err := s.session.RunRoutine(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
