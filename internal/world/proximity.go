package world

import (
	"fmt"
	"math"

	"github.com/wattquest/wattquest-core/internal/device"
)

// Distance returns the Euclidean distance between a position and a device
// location, in percent units.
func Distance(p Position, deviceX, deviceY float64) float64 {
	dx := p.X - deviceX
	dy := p.Y - deviceY
	return math.Sqrt(dx*dx + dy*dy)
}

// WithinRange reports whether a device can be interacted with from the
// given position. The threshold boundary counts as in range.
func WithinRange(p Position, d device.Device, threshold float64) bool {
	return Distance(p, d.X, d.Y) <= threshold
}

// NearestInRange returns the closest device within the threshold of the
// given position, and whether one was found. Ties resolve to the earlier
// device in the list, so results are stable across calls.
func NearestInRange(p Position, devices []device.Device, threshold float64) (device.Device, bool) {
	var nearest device.Device
	best := math.Inf(1)
	found := false

	for _, d := range devices {
		dist := Distance(p, d.X, d.Y)
		if dist > threshold {
			continue
		}
		if dist < best {
			best = dist
			nearest = d
			found = true
		}
	}
	return nearest, found
}

// CheckInteract validates that the device is close enough to interact
// with from the given position.
//
// Returns:
//   - error: ErrTooFar when the device is beyond the threshold
func CheckInteract(p Position, d device.Device, threshold float64) error {
	dist := Distance(p, d.X, d.Y)
	if dist > threshold {
		return fmt.Errorf("%w: %s is %.1f away, need %.1f", ErrTooFar, d.ID, dist, threshold)
	}
	return nil
}
