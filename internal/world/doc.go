// Package world models the floor plan: the player avatar, its movement
// within the playfield, and the proximity gate that decides whether a
// device is close enough to interact with.
package world
