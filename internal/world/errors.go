package world

import "errors"

// ErrTooFar indicates an interaction was attempted on a device outside
// the avatar's reach.
var ErrTooFar = errors.New("world: device out of interaction range")
