package mission

import "github.com/wattquest/wattquest-core/internal/device"

// RequiredAction categorizes what kind of player action a mission asks for.
type RequiredAction string

const (
	// ActionControl asks the player to operate a specific device.
	ActionControl RequiredAction = "control"
	// ActionStatusCheck asks the player to inspect a device's state.
	ActionStatusCheck RequiredAction = "status_check"
	// ActionAutomation asks the player to run a routine.
	ActionAutomation RequiredAction = "automation"
	// ActionLifeCheck asks the player to verify a household-wide condition.
	ActionLifeCheck RequiredAction = "life_check"
)

// Context is the game snapshot a mission predicate is evaluated against.
// It carries everything a mission can observe; predicates never mutate it.
type Context struct {
	Devices     []device.Device
	TotalWatts  int
	ActiveTab   string
	LastRoutine string
}

// DeviceByID looks up a device in the snapshot by ID.
func (c Context) DeviceByID(id string) (device.Device, bool) {
	for _, d := range c.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return device.Device{}, false
}

// Mission is a single objective in the campaign. IDs are sequential
// starting at 1; missions unlock in ID order and only the lowest
// incomplete mission is ever evaluated.
type Mission struct {
	ID             int            `json:"id"`
	Title          string         `json:"title"`
	Location       string         `json:"location"`
	Description    string         `json:"description"`
	Guide          []string       `json:"guide"`
	RequiredAction RequiredAction `json:"required_action"`
	TargetDeviceID string         `json:"target_device_id,omitempty"`

	// check reports whether the mission's objective is met by the
	// current game snapshot. Nil means manual completion only.
	check func(Context) bool
}

// Satisfied reports whether the mission's objective is met by the
// snapshot. Missions without a predicate are never satisfied
// automatically.
func (m Mission) Satisfied(c Context) bool {
	return m.check != nil && m.check(c)
}

// Status is a mission plus its completion flags, as exposed over the API.
type Status struct {
	Mission
	Completed bool `json:"completed"`
	Active    bool `json:"active"`
}
