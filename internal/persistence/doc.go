// Package persistence implements game-state storage.
//
// Snapshots travel through a two-tier Gateway: a durable SQLite store
// preferred when available, and an in-memory fallback the gateway
// degrades to for the rest of the session when the durable tier fails.
// Storage trouble is logged and absorbed, never surfaced as gameplay
// errors.
//
// The Codec additionally packs a snapshot into a signed save code, a
// JWT the player can carry between installs.
package persistence
