package game

import "time"

// EventType classifies session events for notifier fan-out.
type EventType string

const (
	// EventDeviceUpdated fires after any device state change commits.
	EventDeviceUpdated EventType = "device.updated"
	// EventPowerChanged fires when total household draw changes.
	EventPowerChanged EventType = "power.changed"
	// EventPowerAlert fires when a mutation leaves the household over
	// the safety threshold.
	EventPowerAlert EventType = "power.alert"
	// EventMissionCompleted fires once per newly completed mission.
	EventMissionCompleted EventType = "mission.completed"
	// EventCampaignComplete fires when the last mission completes.
	EventCampaignComplete EventType = "campaign.complete"
	// EventInteractionDenied fires when a proximity-gated action is
	// attempted out of range.
	EventInteractionDenied EventType = "interaction.denied"
	// EventAvatarMoved fires after the avatar position changes.
	EventAvatarMoved EventType = "avatar.moved"
	// EventRoutineRan fires after a routine executes.
	EventRoutineRan EventType = "routine.ran"
	// EventGameSaved fires after an explicit save.
	EventGameSaved EventType = "game.saved"
	// EventGameLoaded fires after a snapshot is restored.
	EventGameLoaded EventType = "game.loaded"
	// EventGameReset fires after the session returns to defaults.
	EventGameReset EventType = "game.reset"
)

// Event is a session notification delivered to all registered notifiers.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
	Time    time.Time `json:"time"`
}

// Notifier receives session events. Implementations must not block;
// the session calls Notify while holding its state lock.
type Notifier interface {
	Notify(event Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

// Notify calls the wrapped function.
func (f NotifierFunc) Notify(event Event) { f(event) }
