package game

import "errors"

var (
	// ErrBusy indicates a device already has an operation in flight.
	ErrBusy = errors.New("game: device operation in progress")

	// ErrNotConnected indicates a control action on a device that has
	// not been connected yet.
	ErrNotConnected = errors.New("game: device not connected")

	// ErrCycleRunning indicates an attempt to finish a washer whose
	// cycle still has time left.
	ErrCycleRunning = errors.New("game: wash cycle still running")

	// ErrNotWasher indicates a washer-only action on another device.
	ErrNotWasher = errors.New("game: device is not a washer")

	// ErrInvalidTab indicates an unknown dashboard tab.
	ErrInvalidTab = errors.New("game: invalid tab")

	// ErrNoSave indicates a load with no usable snapshot available.
	ErrNoSave = errors.New("game: no saved game")
)
