package config

import (
	"os"
	"path/filepath"
	"testing"
)

// validSecret meets the 32-character minimum for the save-code secret.
const validSecret = "test-secret-key-at-least-32-chars!"

func TestLoad_ValidConfig(t *testing.T) {
	content := `
game:
  proximity_threshold: 12
  safe_power_watts: 250
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "0.0.0.0"
  port: 8090
save_code:
  secret: "test-secret-key-at-least-32-chars!"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Game.ProximityThreshold != 12 {
		t.Errorf("Game.ProximityThreshold = %v, want 12", cfg.Game.ProximityThreshold)
	}

	if cfg.Game.SafePowerWatts != 250 {
		t.Errorf("Game.SafePowerWatts = %d, want 250", cfg.Game.SafePowerWatts)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	// Values not present in the file keep their defaults.
	if cfg.Game.AvatarStep != 2.5 {
		t.Errorf("Game.AvatarStep = %v, want default 2.5", cfg.Game.AvatarStep)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
database:
  path: "/tmp/from-file.db"
save_code:
  secret: "test-secret-key-at-least-32-chars!"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("WATTQUEST_DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("WATTQUEST_API_PORT", "9999")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Errorf("Database.Path = %q, want env override %q", cfg.Database.Path, "/tmp/from-env.db")
	}
	if cfg.API.Port != 9999 {
		t.Errorf("API.Port = %d, want env override 9999", cfg.API.Port)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.SaveCode.Secret = validSecret
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "zero proximity threshold",
			mutate:  func(c *Config) { c.Game.ProximityThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "negative latency",
			mutate:  func(c *Config) { c.Game.Latency.Toggle = -1 },
			wantErr: true,
		},
		{
			name:    "missing save-code secret",
			mutate:  func(c *Config) { c.SaveCode.Secret = "" },
			wantErr: true,
		},
		{
			name:    "short save-code secret",
			mutate:  func(c *Config) { c.SaveCode.Secret = "too-short" },
			wantErr: true,
		},
		{
			name: "invalid qos only checked when mqtt enabled",
			mutate: func(c *Config) {
				c.MQTT.Enabled = false
				c.MQTT.QoS = 9
			},
			wantErr: false,
		},
		{
			name: "invalid qos rejected when mqtt enabled",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.QoS = 9
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGameConfig_Durations(t *testing.T) {
	cfg := Default()
	if got := cfg.Game.ConnectLatency().Milliseconds(); got != 1500 {
		t.Errorf("ConnectLatency() = %dms, want 1500ms", got)
	}
	if got := cfg.Game.ToggleLatency().Milliseconds(); got != 800 {
		t.Errorf("ToggleLatency() = %dms, want 800ms", got)
	}
	if got := cfg.Game.NotificationDelay().Milliseconds(); got != 500 {
		t.Errorf("NotificationDelay() = %dms, want 500ms", got)
	}
}
