package api

import (
	"encoding/json"
	"net/http"
)

// handleGameState returns the full render state for one dashboard frame.
func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot(r.Context()))
}

// handleSelectTab switches the active dashboard tab.
func (s *Server) handleSelectTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.session.SelectTab(req.Tab); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active_tab": req.Tab})
}

// handleSave persists the current game state.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.session.SaveNow(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// handleLoad restores the last saved game.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.session.LoadSaved(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot(r.Context()))
}

// handleReset returns the game to seed state and clears saves.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.ResetGame(r.Context())
	writeJSON(w, http.StatusOK, s.session.Snapshot(r.Context()))
}

// handleExportCode returns a portable signed save code.
func (s *Server) handleExportCode(w http.ResponseWriter, _ *http.Request) {
	code, err := s.session.ExportCode()
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"code": code})
}

// handleImportCode restores game state from a save code.
func (s *Server) handleImportCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.session.ImportCode(r.Context(), req.Code); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot(r.Context()))
}

// defaultHistoryLimit bounds the energy history response.
const defaultHistoryLimit = 100

// handleEnergyHistory returns recent household power readings.
func (s *Server) handleEnergyHistory(w http.ResponseWriter, r *http.Request) {
	if s.powerLog == nil {
		writeJSON(w, http.StatusOK, map[string]any{"samples": []any{}})
		return
	}

	samples, err := s.powerLog.Recent(r.Context(), defaultHistoryLimit)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"samples": samples})
}
