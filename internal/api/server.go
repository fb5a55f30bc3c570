// Package api exposes WattQuest Core over HTTP and WebSocket.
//
// The REST routes cover the full game surface: render state, avatar
// movement, device interaction, missions, routines and save codes. The
// WebSocket hub pushes session events (device changes, mission progress,
// power updates) to subscribed clients as they happen.
//
// Lifecycle matches the other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// All exported methods are safe for concurrent use.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wattquest/wattquest-core/internal/game"
	"github.com/wattquest/wattquest-core/internal/infrastructure/config"
	"github.com/wattquest/wattquest-core/internal/infrastructure/logging"
	"github.com/wattquest/wattquest-core/internal/persistence"
)

// shutdownGrace bounds how long Close waits for in-flight requests before
// dropping remaining connections.
const shutdownGrace = 10 * time.Second

// Deps holds everything the API server needs to run.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Session  *game.Session
	PowerLog *persistence.PowerLog // optional: energy history endpoint returns empty without it
	Version  string
}

// Server owns the HTTP listener, the route table and the WebSocket hub.
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	session  *game.Session
	powerLog *persistence.PowerLog
	version  string
	server   *http.Server
	hub      *Hub
	cancel   context.CancelFunc
}

// New builds a server from deps without binding any sockets. The WebSocket
// hub exists from this point so callers can register it as a session
// notifier before Start brings the listener up.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: When a required dependency is missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Session == nil {
		return nil, fmt.Errorf("game session is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		logger:   deps.Logger,
		session:  deps.Session,
		powerLog: deps.PowerLog,
		version:  deps.Version,
		hub:      NewHub(deps.WS, deps.Logger),
	}, nil
}

// Hub returns the WebSocket hub, for wiring as a session notifier.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start launches the WebSocket hub and the HTTP listener, both in
// background goroutines. Stop with Close.
//
// Returns:
//   - error: When the listener cannot be configured
func (s *Server) Start(ctx context.Context) error {
	// A child context lets Close stop the hub without touching the parent.
	hubCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.hub.Run(hubCtx)

	timeouts := s.cfg.Timeouts
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server listening", "address", s.server.Addr)
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", "error", err)
		}
	}()

	return nil
}

// Close stops the hub and drains the HTTP listener, waiting up to
// shutdownGrace for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("api health check: %w", err)
	}
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
