package game

import (
	"encoding/json"
	"sync"

	"github.com/wattquest/wattquest-core/internal/device"
	"github.com/wattquest/wattquest-core/internal/infrastructure/mqtt"
	"github.com/wattquest/wattquest-core/internal/mission"
)

// mirrorQueueSize bounds how many events can wait for the broker before
// new ones are dropped.
const mirrorQueueSize = 64

// BrokerPublisher is the broker surface the mirror needs. *mqtt.Client
// satisfies it.
type BrokerPublisher interface {
	IsConnected() bool
	TopicFor() mqtt.Topics
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
}

// TelemetryMirror forwards session events to the MQTT cloud mirror.
// It is telemetry only, never a control path: publish failures are
// logged and dropped, and nothing subscribes back into the session.
//
// Notify never blocks. Events go onto a bounded queue drained by a
// single publisher goroutine; when the broker cannot keep up the queue
// overflows and the newest events are dropped.
type TelemetryMirror struct {
	client BrokerPublisher
	qos    byte
	logger Logger

	queue chan mirrorItem
	done  chan struct{}
	stop  sync.Once
	wg    sync.WaitGroup
}

// mirrorItem is one encoded event awaiting publication.
type mirrorItem struct {
	topic    string
	payload  []byte
	retained bool
}

// NewTelemetryMirror creates a mirror over a connected MQTT client and
// starts its publisher goroutine. Call Close to stop it.
func NewTelemetryMirror(client BrokerPublisher, qos byte, logger Logger) *TelemetryMirror {
	if logger == nil {
		logger = noopLogger{}
	}
	m := &TelemetryMirror{
		client: client,
		qos:    qos,
		logger: logger,
		queue:  make(chan mirrorItem, mirrorQueueSize),
		done:   make(chan struct{}),
	}
	m.wg.Add(1)
	go m.publishLoop()
	return m
}

// Notify queues the subset of events that map to mirror topics. Device
// and power states are retained so a reconnecting dashboard sees the
// current values; mission completions are plain events.
func (m *TelemetryMirror) Notify(event Event) {
	if m.client == nil || !m.client.IsConnected() {
		return
	}

	topics := m.client.TopicFor()
	var topic string
	var retained bool
	switch event.Type {
	case EventDeviceUpdated:
		d, ok := event.Payload.(device.Device)
		if !ok {
			return
		}
		topic, retained = topics.DeviceState(d.ID), true
	case EventPowerChanged:
		topic, retained = topics.PowerTotal(), true
	case EventMissionCompleted:
		ms, ok := event.Payload.(mission.Mission)
		if !ok {
			return
		}
		topic = topics.MissionEvent(ms.ID, "completed")
	default:
		return
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		m.logger.Warn("telemetry encode failed", "type", event.Type, "error", err)
		return
	}

	select {
	case <-m.done:
	case m.queue <- mirrorItem{topic: topic, payload: payload, retained: retained}:
	default:
		m.logger.Debug("telemetry queue full, dropping event", "topic", topic)
	}
}

// Close stops the publisher goroutine. Queued events are discarded.
func (m *TelemetryMirror) Close() {
	m.stop.Do(func() { close(m.done) })
	m.wg.Wait()
}

// publishLoop drains the queue, one blocking publish at a time.
func (m *TelemetryMirror) publishLoop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case item := <-m.queue:
			var err error
			if item.retained {
				err = m.client.PublishRetained(item.topic, item.payload)
			} else {
				err = m.client.Publish(item.topic, item.payload, m.qos, false)
			}
			if err != nil {
				m.logger.Warn("telemetry publish failed", "topic", item.topic, "error", err)
			}
		}
	}
}
