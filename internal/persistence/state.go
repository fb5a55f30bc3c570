package persistence

import (
	"time"

	"github.com/wattquest/wattquest-core/internal/device"
	"github.com/wattquest/wattquest-core/internal/world"
)

// SchemaVersion is bumped when GameState changes shape incompatibly.
// Loads reject snapshots from a different major version.
const SchemaVersion = 1

// GameState is the complete serializable snapshot of a game session.
type GameState struct {
	Version           int             `json:"version"`
	Devices           []device.Device `json:"devices"`
	Avatar            world.Position  `json:"avatar"`
	CompletedMissions []int           `json:"completed_missions"`
	GameClear         bool            `json:"game_clear"`
	ActiveTab         string          `json:"active_tab"`
	LastRoutine       string          `json:"last_routine,omitempty"`
	SavedAt           time.Time       `json:"saved_at"`
}

// Valid reports whether the snapshot is structurally usable: matching
// schema version and a non-empty device list with valid entries.
func (s *GameState) Valid() bool {
	if s == nil || s.Version != SchemaVersion {
		return false
	}
	if len(s.Devices) == 0 {
		return false
	}
	for _, d := range s.Devices {
		if d.ID == "" || !d.Type.Valid() {
			return false
		}
	}
	return true
}
