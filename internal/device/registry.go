package device

import (
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds the canonical device list for a game session.
//
// Devices keep the stable order of the seed list. All reads return copies;
// mutations go through Update/Replace/ResetToDefaults only.
//
// All public methods are thread-safe.
type Registry struct {
	mu      sync.RWMutex
	devices []Device
	logger  Logger
}

// NewRegistry creates a registry populated with the seed devices.
func NewRegistry() *Registry {
	return &Registry{
		devices: Seed(),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// List returns a snapshot of all devices in stable seed order.
func (r *Registry) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Get returns a copy of the device with the given ID.
//
// Returns:
//   - Device: The device, if found
//   - error: ErrDeviceNotFound if the ID does not exist
func (r *Registry) Get(id string) (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.devices {
		if r.devices[i].ID == id {
			return r.devices[i], nil
		}
	}
	return Device{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

// Update merges a partial patch into the device with the given ID and
// returns the updated copy. Other devices are untouched; identity, power
// draw, and position cannot change (Patch has no such fields).
//
// Returns:
//   - Device: The device after the patch
//   - error: ErrDeviceNotFound if the ID does not exist
func (r *Registry) Update(id string, patch Patch) (Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.devices {
		if r.devices[i].ID != id {
			continue
		}
		r.devices[i] = patch.apply(r.devices[i])
		r.logger.Debug("device updated", "device_id", id, "is_on", r.devices[i].IsOn)
		return r.devices[i], nil
	}

	r.logger.Warn("update for unknown device", "device_id", id)
	return Device{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

// ResetToDefaults replaces the entire list with fresh seed copies.
func (r *Registry) ResetToDefaults() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices = Seed()
	r.logger.Info("devices reset to defaults", "count", len(r.devices))
}

// Replace swaps in a previously saved device list, validating each entry.
// Used when restoring a saved game. The slice is copied.
//
// Returns:
//   - error: ErrInvalidDevice if any entry has an empty ID or unknown type
func (r *Registry) Replace(devices []Device) error {
	for i := range devices {
		if devices[i].ID == "" {
			return fmt.Errorf("%w: empty id at index %d", ErrInvalidDevice, i)
		}
		if !devices[i].Type.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidDeviceType, devices[i].Type)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices = make([]Device, len(devices))
	copy(r.devices, devices)
	return nil
}

// TotalActivePowerWatts returns the summed draw of all devices that are on.
// This is a pure derived value, recomputed on every call and never stored.
func (r *Registry) TotalActivePowerWatts() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for i := range r.devices {
		if r.devices[i].IsOn {
			total += r.devices[i].PowerConsumptionWatts
		}
	}
	return total
}

// Count returns the number of devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
