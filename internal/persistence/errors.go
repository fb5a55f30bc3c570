package persistence

import "errors"

var (
	// ErrSlotEmpty indicates a read from a slot nothing was saved to.
	ErrSlotEmpty = errors.New("persistence: slot empty")

	// ErrNoSecret indicates the save-code codec was built without a
	// signing secret.
	ErrNoSecret = errors.New("persistence: save code secret required")

	// ErrInvalidCode indicates a save code that failed verification or
	// carried an unusable snapshot.
	ErrInvalidCode = errors.New("persistence: invalid save code")
)
