package routine

import (
	"time"

	"github.com/google/uuid"
	"github.com/wattquest/wattquest-core/internal/device"
)

// Routine is a one-tap automation that patches several devices at once.
type Routine struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`

	// patchFor returns the patch to apply to a device, or a zero patch
	// to leave it alone.
	patchFor func(device.Device) device.Patch
}

// Run is the record of one routine execution.
type Run struct {
	ID              string    `json:"id"`
	RoutineID       string    `json:"routine_id"`
	RoutineName     string    `json:"routine_name"`
	DevicesAffected []string  `json:"devices_affected"`
	RanAt           time.Time `json:"ran_at"`
}

// Defaults returns the built-in routines in display order.
func Defaults() []Routine {
	return []Routine{
		{
			ID:          "power-save",
			Name:        "Power Save",
			Icon:        "leaf",
			Description: "Switch off every device except the refrigerator and cut standby power.",
			patchFor: func(d device.Device) device.Patch {
				if d.Type == device.TypeRefrigerator {
					return device.Patch{}
				}
				return device.Patch{IsOn: device.Bool(false)}
			},
		},
		{
			ID:          "away",
			Name:        "Away",
			Icon:        "door-open",
			Description: "Turn off the lights and switch the air conditioner to fan-only.",
			patchFor: func(d device.Device) device.Patch {
				switch d.Type {
				case device.TypeAC:
					return device.Patch{
						IsOn:   device.Bool(true),
						Value:  device.Val(device.NumberValue(27)),
						Status: device.String("Fan Only"),
					}
				case device.TypeLight, device.TypeTV:
					return device.Patch{IsOn: device.Bool(false)}
				default:
					return device.Patch{}
				}
			},
		},
		{
			ID:          "sleep",
			Name:        "Sleep",
			Icon:        "moon",
			Description: "Turn off all lights and the TV, and set the air conditioner to a comfortable sleeping temperature.",
			patchFor: func(d device.Device) device.Patch {
				switch d.Type {
				case device.TypeAC:
					return device.Patch{
						IsOn:   device.Bool(true),
						Value:  device.Val(device.NumberValue(26)),
						Status: device.String("Sleep"),
					}
				case device.TypeLight, device.TypeTV:
					return device.Patch{IsOn: device.Bool(false)}
				default:
					return device.Patch{}
				}
			},
		},
		{
			ID:          "movie",
			Name:        "Movie Night",
			Icon:        "clapperboard",
			Description: "Turn on the TV and dim the lights for the right mood.",
			patchFor: func(d device.Device) device.Patch {
				switch d.Type {
				case device.TypeTV:
					return device.Patch{IsOn: device.Bool(true)}
				case device.TypeLight:
					return device.Patch{
						IsOn:  device.Bool(true),
						Value: device.Val(device.NumberValue(30)),
					}
				default:
					return device.Patch{}
				}
			},
		},
	}
}

// newRunID returns a unique identifier for a routine execution record.
func newRunID() string {
	return uuid.NewString()
}
