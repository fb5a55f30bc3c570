package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.withRequestID)
	r.Use(s.withLogging)
	r.Use(s.withRecovery)
	r.Use(s.withCORS)
	r.Use(s.withBodyLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Full render state for one dashboard frame
		r.Get("/game", s.handleGameState)

		// Avatar movement
		r.Route("/avatar", func(r chi.Router) {
			r.Post("/move", s.handleAvatarMove)
			r.Post("/step", s.handleAvatarStep)
			r.Post("/walk-to/{deviceID}", s.handleAvatarWalkTo)
		})

		// Device endpoints
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Post("/interact", s.handleInteract)
				r.Post("/connect", s.handleConnect)
				r.Post("/power", s.handleTogglePower)
				r.Post("/value", s.handleAdjustValue)
				r.Post("/finish", s.handleFinishWasher)
			})
		})

		// Missions and routines
		r.Get("/missions", s.handleListMissions)
		r.Route("/routines", func(r chi.Router) {
			r.Get("/", s.handleListRoutines)
			r.Get("/history", s.handleRoutineHistory)
			r.Post("/{id}/run", s.handleRunRoutine)
		})

		// Dashboard tab selection
		r.Post("/tab", s.handleSelectTab)

		// Energy history
		r.Get("/energy/history", s.handleEnergyHistory)

		// Persistence. Registered flat because GET /game above already
		// owns the subtree root.
		r.Post("/game/save", s.handleSave)
		r.Post("/game/load", s.handleLoad)
		r.Post("/game/reset", s.handleReset)
		r.Get("/game/code", s.handleExportCode)
		r.Post("/game/code", s.handleImportCode)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
