// WattQuest Core - Smart Home Energy Game
//
// This is the main entry point for the WattQuest Core server. It hosts
// a single-player smart-home energy game: a simulated household of
// appliances, a mission campaign, one-tap routines and a persistence
// gateway, exposed over a REST and WebSocket API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/wattquest/wattquest-core/migrations"

	"github.com/wattquest/wattquest-core/internal/api"
	"github.com/wattquest/wattquest-core/internal/game"
	"github.com/wattquest/wattquest-core/internal/infrastructure/config"
	"github.com/wattquest/wattquest-core/internal/infrastructure/database"
	"github.com/wattquest/wattquest-core/internal/infrastructure/logging"
	"github.com/wattquest/wattquest-core/internal/infrastructure/mqtt"
	"github.com/wattquest/wattquest-core/internal/persistence"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting WattQuest Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open database. Failure is not fatal: the persistence gateway
	// degrades to its in-memory tier and the game stays playable.
	var durable persistence.Store
	var powerLog *persistence.PowerLog
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	switch {
	case err != nil:
		log.Warn("database unavailable, saves are in-memory only", "error", err)
	default:
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			log.Warn("migrations failed, saves are in-memory only", "error", migrateErr)
		} else {
			log.Info("database ready", "path", cfg.Database.Path)
			durable = persistence.NewSQLiteStore(db)
			powerLog = persistence.NewPowerLog(db)
		}
	}

	// Persistence gateway and save-code codec
	gateway := persistence.NewGateway(durable, persistence.NewMemoryStore())
	codec, err := persistence.NewCodec(persistence.CodecConfig{Secret: cfg.SaveCode.Secret})
	if err != nil {
		return fmt.Errorf("creating save-code codec: %w", err)
	}

	// Game session
	session := game.New(game.Options{
		ProximityThreshold: cfg.Game.ProximityThreshold,
		SafeWatts:          cfg.Game.SafePowerWatts,
		AvatarStep:         cfg.Game.AvatarStep,
		ConnectLatency:     cfg.Game.ConnectLatency(),
		ToggleLatency:      cfg.Game.ToggleLatency(),
		NotificationDelay:  cfg.Game.NotificationDelay(),
	}, gateway, codec)
	defer session.Close()
	session.SetLogger(log)
	if powerLog != nil {
		session.SetPowerRecorder(powerLog)
	}

	// Resume a previous game when one exists
	if loadErr := session.LoadSaved(ctx); loadErr == nil {
		log.Info("previous game restored")
	} else {
		log.Info("starting a fresh game")
	}

	// Connect to the MQTT cloud mirror (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			log.Warn("MQTT unavailable, telemetry mirror disabled", "error", mqttErr)
		} else {
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			log.Info("MQTT connected",
				"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
				"client_id", cfg.MQTT.Broker.ClientID,
			)

			mqttClient.SetOnConnect(func() {
				log.Info("MQTT reconnected")
			})
			mqttClient.SetOnDisconnect(func(discErr error) {
				log.Warn("MQTT disconnected", "error", discErr)
			})

			mirror := game.NewTelemetryMirror(mqttClient, byte(cfg.MQTT.QoS), log)
			defer mirror.Close()
			session.AddNotifier(mirror)
		}
	} else {
		log.Info("MQTT disabled, running fully offline")
	}

	// API server
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log,
		Session:  session,
		PowerLog: powerLog,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	session.AddNotifier(server.Hub())

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Save on the way out so a clean shutdown never loses progress.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	session.SaveNow(saveCtx)
	saveCancel()

	log.Info("WattQuest Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses WATTQUEST_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WATTQUEST_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
