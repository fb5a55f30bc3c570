package routine

import "errors"

// ErrRoutineNotFound indicates an unknown routine ID.
var ErrRoutineNotFound = errors.New("routine: routine not found")
