package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of the WattQuest Core configuration tree. Values come
// from three layers, each overriding the last: built-in defaults, the YAML
// file, then WATTQUEST_* environment variables.
type Config struct {
	Game      GameConfig      `yaml:"game"`
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	SaveCode  SaveCodeConfig  `yaml:"save_code"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GameConfig contains gameplay tuning values.
type GameConfig struct {
	// ProximityThreshold is the maximum avatar-to-device distance (in map
	// percentage units) at which interaction is permitted.
	ProximityThreshold float64 `yaml:"proximity_threshold"`

	// SafePowerWatts is the aggregate power draw at or below which the
	// household counts as energy-efficient.
	SafePowerWatts int `yaml:"safe_power_watts"`

	// AvatarStep is the distance moved per keyboard step, in percentage units.
	AvatarStep float64 `yaml:"avatar_step"`

	// Latency contains the simulated cloud round-trip delays.
	Latency LatencyConfig `yaml:"latency"`
}

// LatencyConfig contains the artificial delays that model cloud round-trips.
// All values are in milliseconds. Zero makes the effect synchronous (used in tests).
type LatencyConfig struct {
	Connect      int `yaml:"connect"`
	Toggle       int `yaml:"toggle"`
	Notification int `yaml:"notification"`
}

// DatabaseConfig holds the SQLite settings for the save store.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig holds the HTTP listener settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig holds HTTP timeouts, in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig holds the cross-origin policy for browser clients.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig holds the real-time event endpoint settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains the optional cloud-mirror broker settings.
// When Enabled is false the game runs fully offline (the default).
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	TopicBase string              `yaml:"topic_base"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig identifies the broker to mirror state to.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig carries broker credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig bounds the reconnect backoff, in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// SaveCodeConfig contains settings for signed export/import save codes.
type SaveCodeConfig struct {
	// Secret signs save codes so pasted codes can be verified.
	// Required; set via WATTQUEST_SAVECODE_SECRET in deployment.
	Secret string `yaml:"secret"`
}

// LoggingConfig controls log level, encoding and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads the YAML file at path on top of Default, applies WATTQUEST_*
// environment overrides, and validates the result.
//
// Parameters:
//   - path: YAML configuration file to read
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: When the file cannot be read or parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with sensible defaults.
// The save-code secret is deliberately left empty; Validate rejects it.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			ProximityThreshold: 15,
			SafePowerWatts:     300,
			AvatarStep:         2.5,
			Latency: LatencyConfig{
				Connect:      1500,
				Toggle:       800,
				Notification: 500,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/wattquest.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8090,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "wattquest-core",
			},
			QoS:       1,
			TopicBase: "wattquest",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnv overlays WATTQUEST_SECTION_KEY environment variables onto c.
// Unset or malformed values leave the existing setting untouched.
func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("WATTQUEST_DATABASE_PATH", &c.Database.Path)
	setString("WATTQUEST_API_HOST", &c.API.Host)
	setInt("WATTQUEST_API_PORT", &c.API.Port)
	setString("WATTQUEST_MQTT_HOST", &c.MQTT.Broker.Host)
	setString("WATTQUEST_MQTT_USERNAME", &c.MQTT.Auth.Username)
	setString("WATTQUEST_MQTT_PASSWORD", &c.MQTT.Auth.Password)
	// Always set in production; the YAML value is for development only.
	setString("WATTQUEST_SAVECODE_SECRET", &c.SaveCode.Secret)
}

// minSaveCodeSecretLength is the minimum length for the save-code signing
// secret. Shorter secrets make forged save codes practical to brute-force.
const minSaveCodeSecretLength = 32

// Validate reports every problem with the configuration in one error.
func (c *Config) Validate() error {
	var problems []string
	bad := func(msg string) { problems = append(problems, msg) }

	if c.Database.Path == "" {
		bad("database.path is required")
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		bad("api.port must be between 1 and 65535")
	}

	if c.Game.ProximityThreshold <= 0 {
		bad("game.proximity_threshold must be positive")
	}
	if c.Game.SafePowerWatts <= 0 {
		bad("game.safe_power_watts must be positive")
	}
	if c.Game.AvatarStep <= 0 {
		bad("game.avatar_step must be positive")
	}
	if c.Game.Latency.Connect < 0 || c.Game.Latency.Toggle < 0 || c.Game.Latency.Notification < 0 {
		bad("game.latency values must not be negative")
	}

	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			bad("mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.TopicBase == "" {
			bad("mqtt.topic_base is required when mqtt is enabled")
		}
	}

	// Save codes are signed; an unsigned fallback would let players paste
	// arbitrary forged state, so the secret is mandatory.
	switch {
	case c.SaveCode.Secret == "":
		bad("save_code.secret is required (set WATTQUEST_SAVECODE_SECRET environment variable)")
	case len(c.SaveCode.Secret) < minSaveCodeSecretLength:
		bad("save_code.secret must be at least 32 characters")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ConnectLatency returns the simulated connect delay as a Duration.
func (g GameConfig) ConnectLatency() time.Duration {
	return time.Duration(g.Latency.Connect) * time.Millisecond
}

// ToggleLatency returns the simulated power-toggle delay as a Duration.
func (g GameConfig) ToggleLatency() time.Duration {
	return time.Duration(g.Latency.Toggle) * time.Millisecond
}

// NotificationDelay returns the mission-success pacing delay as a Duration.
func (g GameConfig) NotificationDelay() time.Duration {
	return time.Duration(g.Latency.Notification) * time.Millisecond
}
