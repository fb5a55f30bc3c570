// Package device implements the household device registry.
//
// A Registry holds the ordered list of simulated appliances for a game
// session. Devices expose a small mutable surface (on/off, connection,
// value, status) behind a partial Patch merge; identity, power draw and
// floor position are fixed at seed time.
//
// Total active power is always derived by summing the list, never cached,
// so it cannot drift from device state.
package device
