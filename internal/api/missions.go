package api

import "net/http"

// handleListMissions returns the campaign with completion flags.
func (s *Server) handleListMissions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"missions": s.session.Missions()})
}
