package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wattquest/wattquest-core/internal/game"
	"github.com/wattquest/wattquest-core/internal/infrastructure/config"
	"github.com/wattquest/wattquest-core/internal/infrastructure/logging"
)

// Client-to-server and server-to-client message types.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"
)

// Broadcast channels clients can subscribe to.
const (
	ChannelDevices  = "devices"
	ChannelMissions = "missions"
	ChannelGame     = "game"
)

// wsSendBuffer is the per-client outbound queue. A client that falls
// this far behind starts losing events rather than stalling the game.
const wsSendBuffer = 256

// WSMessage is the wire envelope for every hub message.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// wsInbound is the parsed shape of client messages; the payload stays
// raw until the type is known.
type wsInbound struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsChannels struct {
	Channels []string `json:"channels"`
}

// Hub fans session events out to subscribed WebSocket clients. It
// implements game.Notifier, so it registers directly on the session.
type Hub struct {
	cfg    config.WebSocketConfig
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// Run blocks until ctx is cancelled, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	for c := range h.clients {
		c.shutdown()
		delete(h.clients, c)
	}
	h.mu.Unlock()
}

// Notify routes a session event to the channel derived from its type.
// Never blocks; slow clients drop messages instead.
func (h *Hub) Notify(event game.Event) {
	h.Broadcast(channelFor(event.Type), event)
}

// channelFor maps a session event type onto a broadcast channel.
func channelFor(t game.EventType) string {
	switch {
	case strings.HasPrefix(string(t), "mission.") || strings.HasPrefix(string(t), "campaign."):
		return ChannelMissions
	case strings.HasPrefix(string(t), "device.") || strings.HasPrefix(string(t), "power."):
		return ChannelDevices
	default:
		return ChannelGame
	}
}

// Broadcast sends a payload to every client subscribed to the channel.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := json.Marshal(WSMessage{
		Type:      WSTypeEvent,
		EventType: channel,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("broadcast encode failed", "channel", channel, "error", err)
		return
	}

	// Snapshot under the hub lock; per-client work happens outside it.
	h.mu.RLock()
	targets := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if c.subscribed(channel) {
			c.enqueue(data)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) attach(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

func (h *Hub) detach(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	c.shutdown()
	h.logger.Debug("websocket client disconnected", "clients", n)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy lives in the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and starts the client pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, wsSendBuffer),
		done: make(chan struct{}),
		subs: make(map[string]struct{}),
	}
	s.hub.attach(c)

	go c.writePump(s.wsCfg)
	go c.readPump(s.wsCfg)
}

// wsClient is one connected player view. The send channel is never
// closed; shutdown closes done instead, which unblocks the write pump
// and makes further enqueues no-ops.
type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	stop sync.Once

	mu   sync.RWMutex
	subs map[string]struct{}
}

func (c *wsClient) shutdown() {
	c.stop.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// enqueue hands data to the write pump without ever blocking the
// caller. Dropped on a full buffer or a finished client.
func (c *wsClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
	}
}

func (c *wsClient) subscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subs[channel]
	return ok
}

// readPump consumes client messages until the connection dies.
func (c *wsClient) readPump(cfg config.WebSocketConfig) {
	defer c.hub.detach(c)

	idle := time.Duration(cfg.PingInterval+cfg.PongTimeout) * time.Second
	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	//nolint:errcheck // deadline setup is best effort
	c.conn.SetReadDeadline(time.Now().Add(idle))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(idle))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		// Any traffic proves liveness, not just protocol pongs.
		//nolint:errcheck // deadline reset is best effort
		c.conn.SetReadDeadline(time.Now().Add(idle))
		c.dispatch(raw)
	}
}

// writePump owns all writes to the connection, including keepalive pings.
func (c *wsClient) writePump(cfg config.WebSocketConfig) {
	ticker := time.NewTicker(time.Duration(cfg.PingInterval) * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	writeWait := time.Duration(cfg.PongTimeout) * time.Second
	for {
		select {
		case <-c.done:
			//nolint:errcheck // closing handshake is best effort
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case data := <-c.send:
			//nolint:errcheck // write failure surfaces on WriteMessage
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // write failure surfaces on WriteMessage
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch handles one decoded client message.
func (c *wsClient) dispatch(raw []byte) {
	var msg wsInbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.reply(WSMessage{Type: WSTypeError, Payload: map[string]any{"message": "invalid JSON message"}})
		return
	}

	switch msg.Type {
	case WSTypeSubscribe, WSTypeUnsubscribe:
		var req wsChannels
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.reply(WSMessage{Type: WSTypeError, ID: msg.ID, Payload: map[string]any{"message": "invalid channels payload"}})
			return
		}
		c.updateSubs(msg.Type, req.Channels)
		key := "subscribed"
		if msg.Type == WSTypeUnsubscribe {
			key = "unsubscribed"
		}
		c.reply(WSMessage{Type: WSTypeResponse, ID: msg.ID, Payload: map[string]any{key: req.Channels}})
	case WSTypePing:
		c.reply(WSMessage{Type: WSTypePong, ID: msg.ID})
	default:
		c.reply(WSMessage{Type: WSTypeError, ID: msg.ID, Payload: map[string]any{"message": "unknown message type: " + msg.Type}})
	}
}

func (c *wsClient) updateSubs(op string, channels []string) {
	c.mu.Lock()
	for _, ch := range channels {
		if op == WSTypeSubscribe {
			c.subs[ch] = struct{}{}
		} else {
			delete(c.subs, ch)
		}
	}
	c.mu.Unlock()
}

func (c *wsClient) reply(msg WSMessage) {
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.enqueue(data)
}
