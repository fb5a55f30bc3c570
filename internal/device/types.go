package device

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DeviceType classifies a simulated appliance.
type DeviceType string

// Known device types.
const (
	TypeTV           DeviceType = "tv"
	TypeAC           DeviceType = "ac"
	TypeLight        DeviceType = "light"
	TypeWasher       DeviceType = "washer"
	TypeAirFryer     DeviceType = "airfryer"
	TypeRefrigerator DeviceType = "refrigerator"
)

// Valid reports whether the device type is one of the known types.
func (t DeviceType) Valid() bool {
	switch t {
	case TypeTV, TypeAC, TypeLight, TypeWasher, TypeAirFryer, TypeRefrigerator:
		return true
	}
	return false
}

// Value is a category-dependent control value: channel number for a TV,
// target temperature for an AC, remaining minutes for a washer, brightness
// percent for a light. It holds either a number or a free-form string and
// JSON-encodes as the bare value, matching the save format.
type Value struct {
	num   float64
	str   string
	isStr bool
}

// NumberValue returns a numeric Value.
func NumberValue(n float64) Value {
	return Value{num: n}
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{str: s, isStr: true}
}

// Number returns the numeric value and true, or 0 and false for string values.
func (v Value) Number() (float64, bool) {
	if v.isStr {
		return 0, false
	}
	return v.num, true
}

// Text returns the string form of the value regardless of kind.
func (v Value) Text() string {
	if v.isStr {
		return v.str
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// Add returns the value shifted by delta. String values are returned unchanged.
func (v Value) Add(delta float64) Value {
	if v.isStr {
		return v
	}
	return Value{num: v.num + delta}
}

// MarshalJSON encodes the value as a bare number or string.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isStr {
		return json.Marshal(v.str)
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Value{num: num}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*v = Value{str: str, isStr: true}
		return nil
	}

	return fmt.Errorf("%w: value must be a number or string", ErrInvalidValue)
}

// Device represents a simulated household appliance on the map.
//
// PowerConsumptionWatts, identity, and position are fixed at creation; only
// IsOn, IsConnected, Value, and Status change during play (see Patch).
type Device struct {
	// Identity
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type DeviceType `json:"type"`
	Room string     `json:"room"`

	// Mutable control state
	IsOn        bool   `json:"is_on"`
	IsConnected bool   `json:"is_connected"`
	Value       Value  `json:"value"`
	Status      string `json:"status"`

	// PowerConsumptionWatts is the draw while the device is on. Constant.
	PowerConsumptionWatts int `json:"power_consumption_watts"`

	// Position on the map, in percentage coordinates (0-100).
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Patch is a partial update applied to a device's mutable state.
// Nil fields are left untouched. Identity, power draw, and position are
// deliberately absent: they cannot be changed after creation.
type Patch struct {
	IsOn        *bool   `json:"is_on,omitempty"`
	IsConnected *bool   `json:"is_connected,omitempty"`
	Value       *Value  `json:"value,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.IsOn == nil && p.IsConnected == nil && p.Value == nil && p.Status == nil
}

// apply merges the patch into a device copy and returns it.
func (p Patch) apply(d Device) Device {
	if p.IsOn != nil {
		d.IsOn = *p.IsOn
	}
	if p.IsConnected != nil {
		d.IsConnected = *p.IsConnected
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	return d
}

// Helpers for building patches inline.

// Bool returns a pointer to b, for use in Patch literals.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for use in Patch literals.
func String(s string) *string { return &s }

// Val returns a pointer to v, for use in Patch literals.
func Val(v Value) *Value { return &v }
