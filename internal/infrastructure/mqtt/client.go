package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/wattquest/wattquest-core/internal/infrastructure/config"
)

// Client is the optional cloud-mirror publisher over paho.mqtt.golang.
//
// The game core never receives commands this way: the mirror is
// publish-only telemetry so an external dashboard can watch device
// state change as the player works through the house.
//
// Safe for concurrent use.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig
	topics Topics

	mu           sync.RWMutex
	connected    bool
	onConnect    func()
	onDisconnect func(err error)
}

// statusPayload is the retained presence message on the system topic.
// A reason is present on offline messages only.
type statusPayload struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func buildOnlinePayload(clientID string) string {
	return encodeStatus(statusPayload{Status: "online", ClientID: clientID})
}

func buildOfflinePayload(clientID string) string {
	return encodeStatus(statusPayload{Status: "offline", ClientID: clientID, Reason: "graceful_shutdown"})
}

func encodeStatus(p statusPayload) string {
	p.Timestamp = time.Now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(p)
	if err != nil {
		return `{"status":"unknown"}`
	}
	return string(data)
}

// Connect dials the broker described by cfg and waits for the initial
// connection. The client keeps reconnecting on its own afterwards, and
// a Last Will marks the mirror offline if the process dies uncleanly.
//
// Returns:
//   - *Client: Connected client
//   - error: ErrConnectionFailed when the broker cannot be reached in time
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{
		cfg:    cfg,
		topics: Topics{Base: cfg.TopicBase},
	}

	opts := buildClientOptions(cfg)
	opts.SetWill(c.topics.SystemStatus(),
		encodeStatus(statusPayload{Status: "offline", ClientID: cfg.Broker.ClientID, Reason: "unexpected_disconnect"}),
		1, true)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.becameConnected() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.lostConnection(err) })

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect handler runs asynchronously; mark connected here so
	// IsConnected is true as soon as Connect returns.
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return c, nil
}

func (c *Client) becameConnected() {
	c.mu.Lock()
	c.connected = true
	cb := c.onConnect
	c.mu.Unlock()

	c.client.Publish(c.topics.SystemStatus(), byte(c.cfg.QoS), true,
		buildOnlinePayload(c.cfg.Broker.ClientID))
	if cb != nil {
		cb()
	}
}

func (c *Client) lostConnection(err error) {
	c.mu.Lock()
	c.connected = false
	cb := c.onDisconnect
	c.mu.Unlock()

	if cb != nil {
		cb(err)
	}
}

// Close announces a graceful offline status, then disconnects.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		token := c.client.Publish(c.topics.SystemStatus(), byte(c.cfg.QoS), true,
			buildOfflinePayload(c.cfg.Broker.ClientID))
		token.WaitTimeout(publishTimeout)
	}
	c.client.Disconnect(disconnectQuiesceMS)

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	return nil
}

// HealthCheck reports whether the broker connection is alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// SetOnConnect registers a callback for initial connect and reconnects.
func (c *Client) SetOnConnect(cb func()) {
	c.mu.Lock()
	c.onConnect = cb
	c.mu.Unlock()
}

// SetOnDisconnect registers a callback for lost connections.
func (c *Client) SetOnDisconnect(cb func(err error)) {
	c.mu.Lock()
	c.onDisconnect = cb
	c.mu.Unlock()
}

// TopicFor returns the topic helper configured with this client's base.
func (c *Client) TopicFor() Topics {
	return c.topics
}
