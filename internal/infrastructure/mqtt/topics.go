package mqtt

import "fmt"

// defaultTopicBase is used when no topic base is configured.
const defaultTopicBase = "wattquest"

// Topics provides builders for WattQuest cloud-mirror MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{Base: "wattquest"}
//	topic := topics.DeviceState("tv-1")
//	// Returns: "wattquest/devices/tv-1/state"
type Topics struct {
	// Base is the topic prefix, from mqtt.topic_base in config.
	Base string
}

func (t Topics) base() string {
	if t.Base == "" {
		return defaultTopicBase
	}
	return t.Base
}

// SystemStatus returns the topic for core online/offline status.
//
// Example: wattquest/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.base())
}

// DeviceState returns the topic for device state-change telemetry.
//
// Example: wattquest/devices/tv-1/state
func (t Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/devices/%s/state", t.base(), deviceID)
}

// MissionEvent returns the topic for mission progress events.
//
// Example: wattquest/missions/1/completed
func (t Topics) MissionEvent(missionID int, event string) string {
	return fmt.Sprintf("%s/missions/%d/%s", t.base(), missionID, event)
}

// PowerTotal returns the topic for aggregate power-draw telemetry.
//
// Example: wattquest/power/total
func (t Topics) PowerTotal() string {
	return fmt.Sprintf("%s/power/total", t.base())
}
