package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wattquest/wattquest-core/internal/world"
)

// handleAvatarMove places the avatar at an absolute position.
func (s *Server) handleAvatarMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	pos := s.session.MoveAvatar(world.Position{X: req.X, Y: req.Y})
	writeJSON(w, http.StatusOK, map[string]any{"avatar": pos})
}

// handleAvatarStep moves the avatar one step in a cardinal direction.
func (s *Server) handleAvatarStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	dir := world.Direction(req.Direction)
	switch dir {
	case world.DirUp, world.DirDown, world.DirLeft, world.DirRight:
	default:
		writeBadRequest(w, "direction must be up, down, left or right")
		return
	}

	pos := s.session.StepAvatar(dir)
	writeJSON(w, http.StatusOK, map[string]any{"avatar": pos})
}

// handleAvatarWalkTo snaps the avatar to the standing spot beside a device.
func (s *Server) handleAvatarWalkTo(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	pos, err := s.session.WalkToDevice(deviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"avatar": pos})
}
