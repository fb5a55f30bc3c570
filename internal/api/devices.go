package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListDevices returns all devices in floor-plan order.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"devices": s.session.Devices()})
}

// handleGetDevice returns a single device.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	d, err := s.session.Device(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleInteract checks the proximity gate and returns the device when
// the avatar is close enough to interact.
func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	d, err := s.session.RequestInteract(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleConnect starts the simulated cloud handshake for a device.
// The connection commits after the configured latency, so the response
// is 202 and clients observe the result via WebSocket or polling.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.session.Connect(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"device_id": id, "status": "connecting"})
}

// handleTogglePower flips a connected device on or off after the
// configured latency.
func (s *Server) handleTogglePower(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.session.TogglePower(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"device_id": id, "status": "toggling"})
}

// handleAdjustValue shifts a device's numeric value by a delta.
func (s *Server) handleAdjustValue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.session.AdjustValue(id, req.Delta); err != nil {
		writeDomainError(w, err)
		return
	}

	d, err := s.session.Device(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleFinishWasher collects a finished wash cycle.
func (s *Server) handleFinishWasher(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.session.FinishWasher(id); err != nil {
		writeDomainError(w, err)
		return
	}

	d, err := s.session.Device(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
