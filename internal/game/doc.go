// Package game implements the session orchestrator.
//
// A Session owns the device registry, mission machine, routine engine,
// avatar and persistence gateway, and serializes every mutation behind
// one mutex so each action runs the same sequence atomically: mutate,
// emit events, record power, evaluate missions, auto-save.
//
// Connection and power toggles carry simulated cloud latency as
// cancellable timers, and mission success is debounced so completion
// only commits if the objective still holds when the notification
// window elapses. A latency or delay of zero makes the corresponding
// step synchronous, which tests rely on.
package game
