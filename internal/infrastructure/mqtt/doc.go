// Package mqtt provides the optional cloud-mirror publisher for WattQuest Core.
//
// The mirror is telemetry only: device state changes, mission events, and
// aggregate power draw are published to an external broker so dashboards can
// observe a running game. The core never subscribes to anything; gameplay is
// driven entirely through the HTTP API, and the game is fully playable with
// the mirror disabled (the default).
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.TopicFor().DeviceState("tv-1")
//	client.PublishRetained(topic, payload)
//
// # Reliability
//
// The client auto-reconnects with exponential backoff. A Last Will and
// Testament on the system status topic lets subscribers detect crashes.
package mqtt
