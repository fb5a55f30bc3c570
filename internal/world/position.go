package world

import "sync"

// Playfield bounds, in percent of the floor plan. The avatar is clamped
// so it never leaves the visible area.
const (
	MinCoord = 5.0
	MaxCoord = 95.0
)

// Position is a point on the floor plan, in percent coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Direction is a cardinal movement direction for step-wise avatar moves.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Avatar tracks the player position on the floor plan.
//
// All methods are thread-safe.
type Avatar struct {
	mu   sync.RWMutex
	pos  Position
	step float64
}

// NewAvatar creates an avatar at the given starting position with the
// given per-step distance. Coordinates outside the playfield are clamped.
func NewAvatar(start Position, step float64) *Avatar {
	return &Avatar{
		pos:  clampPosition(start),
		step: step,
	}
}

// Position returns the current avatar position.
func (a *Avatar) Position() Position {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pos
}

// MoveTo places the avatar at an absolute position, clamped to the
// playfield, and returns the resulting position.
func (a *Avatar) MoveTo(p Position) Position {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pos = clampPosition(p)
	return a.pos
}

// Step moves the avatar one step in the given direction, clamped to the
// playfield. Unknown directions leave the position unchanged.
func (a *Avatar) Step(dir Direction) Position {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.pos
	switch dir {
	case DirUp:
		p.Y -= a.step
	case DirDown:
		p.Y += a.step
	case DirLeft:
		p.X -= a.step
	case DirRight:
		p.X += a.step
	}
	a.pos = clampPosition(p)
	return a.pos
}

// WalkTo snaps the avatar to a standing spot just below a device, so the
// player ends up within interaction range without overlapping the device.
func (a *Avatar) WalkTo(deviceX, deviceY float64) Position {
	return a.MoveTo(Position{X: deviceX, Y: deviceY + 5})
}

func clampPosition(p Position) Position {
	return Position{
		X: clamp(p.X, MinCoord, MaxCoord),
		Y: clamp(p.Y, MinCoord, MaxCoord),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
