package mission

import "errors"

var (
	// ErrMissionNotFound indicates an unknown mission ID.
	ErrMissionNotFound = errors.New("mission: mission not found")

	// ErrMissionLocked indicates an attempt to complete a mission while
	// an earlier one is still open.
	ErrMissionLocked = errors.New("mission: mission locked")
)
