package mqtt

import (
	"strings"
	"testing"

	"github.com/wattquest/wattquest-core/internal/infrastructure/config"
)

func TestTopics(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "system status",
			got:  Topics{Base: "wattquest"}.SystemStatus(),
			want: "wattquest/system/status",
		},
		{
			name: "device state",
			got:  Topics{Base: "wattquest"}.DeviceState("tv-1"),
			want: "wattquest/devices/tv-1/state",
		},
		{
			name: "mission event",
			got:  Topics{Base: "wattquest"}.MissionEvent(1, "completed"),
			want: "wattquest/missions/1/completed",
		},
		{
			name: "power total",
			got:  Topics{Base: "wattquest"}.PowerTotal(),
			want: "wattquest/power/total",
		},
		{
			name: "empty base falls back to default",
			got:  Topics{}.SystemStatus(),
			want: "wattquest/system/status",
		},
		{
			name: "custom base",
			got:  Topics{Base: "demo/house"}.PowerTotal(),
			want: "demo/house/power/total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.example.com",
			Port:     8883,
			TLS:      true,
			ClientID: "wattquest-test",
		},
		Auth: config.MQTTAuthConfig{
			Username: "user",
			Password: "pass",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
	}
	if opts.Servers[0].Scheme != "ssl" {
		t.Errorf("scheme = %q, want ssl for TLS broker", opts.Servers[0].Scheme)
	}
	if opts.ClientID != "wattquest-test" {
		t.Errorf("client id = %q, want wattquest-test", opts.ClientID)
	}
	if opts.Username != "user" {
		t.Errorf("username = %q, want user", opts.Username)
	}
}

func TestPublish_Validation(t *testing.T) {
	// A client that was never connected: validation failures must be
	// reported before any network activity is attempted.
	c := &Client{cfg: config.MQTTConfig{QoS: 1}}

	if err := c.Publish("", []byte("x"), 1, false); err != ErrInvalidTopic {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("a/b", []byte("x"), 3, false); err != ErrInvalidQoS {
		t.Errorf("bad qos error = %v, want ErrInvalidQoS", err)
	}

	big := []byte(strings.Repeat("x", maxPayloadSize+1))
	err := c.Publish("a/b", big, 1, false)
	if err == nil {
		t.Error("oversized payload: expected error, got nil")
	}
}

func TestBuildStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("wattquest-core")
	if !strings.Contains(online, `"status":"online"`) {
		t.Errorf("online payload missing status: %s", online)
	}
	if !strings.Contains(online, "wattquest-core") {
		t.Errorf("online payload missing client id: %s", online)
	}

	offline := buildOfflinePayload("wattquest-core")
	if !strings.Contains(offline, `"status":"offline"`) {
		t.Errorf("offline payload missing status: %s", offline)
	}
	if !strings.Contains(offline, "graceful_shutdown") {
		t.Errorf("offline payload missing reason: %s", offline)
	}
}
