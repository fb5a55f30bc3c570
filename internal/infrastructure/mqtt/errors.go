package mqtt

import "errors"

// Sentinel errors for broker operations. Callers match with errors.Is.
var (
	// ErrNotConnected: operation attempted while the client is offline.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed: the initial broker handshake did not complete.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed: the broker rejected or timed out a publish.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidQoS: QoS outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic: empty topic string.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
