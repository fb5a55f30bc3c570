package mission

// DefaultMissions returns the campaign in play order. safeWatts is the
// household power ceiling the final mission checks against.
func DefaultMissions(safeWatts int) []Mission {
	return []Mission{
		{
			ID:             1,
			Title:          "First Contact",
			Location:       "Living Room",
			Description:    "Walk to the living room TV, connect to it, and switch it off.",
			RequiredAction: ActionControl,
			TargetDeviceID: "tv-1",
			Guide: []string{
				"This month's power bill is going to be huge.",
				"Start with the TV in the living room.",
				"Get close, connect to it, and switch it off.",
			},
			check: func(c Context) bool {
				d, ok := c.DeviceByID("tv-1")
				return ok && d.IsConnected && !d.IsOn
			},
		},
		{
			ID:             2,
			Title:          "Tame the Fryer",
			Location:       "Kitchen",
			Description:    "The air fryer is the biggest energy hog in the house. Connect to it and switch it off.",
			RequiredAction: ActionControl,
			TargetDeviceID: "airfryer-1",
			Guide: []string{
				"The air fryer in the kitchen is still running.",
				"It draws more power than anything else in the house.",
				"Connect to it and cut the power.",
			},
			check: func(c Context) bool {
				d, ok := c.DeviceByID("airfryer-1")
				return ok && d.IsConnected && !d.IsOn
			},
		},
		{
			ID:             3,
			Title:          "Laundry Day",
			Location:       "Utility Room",
			Description:    "Connect to the washer and collect the finished cycle.",
			RequiredAction: ActionStatusCheck,
			TargetDeviceID: "washer-1",
			Guide: []string{
				"The washer finished its cycle a while ago.",
				"Connect to it and check the drum.",
				"No point leaving it powered once the laundry is out.",
			},
			check: func(c Context) bool {
				d, ok := c.DeviceByID("washer-1")
				return ok && d.IsConnected && !d.IsOn && d.Status == "Finished"
			},
		},
		{
			ID:             4,
			Title:          "One-Tap Savings",
			Location:       "Automation",
			Description:    "Run the Power Save routine to shut down everything non-essential at once.",
			RequiredAction: ActionAutomation,
			Guide: []string{
				"Turning devices off one by one gets old fast.",
				"Open the automation tab and run Power Save.",
				"One tap, whole house.",
			},
			check: func(c Context) bool {
				return c.LastRoutine == "power-save"
			},
		},
		{
			ID:             5,
			Title:          "Stay in the Green",
			Location:       "Energy Tab",
			Description:    "Open the energy overview and bring the household under the safety threshold.",
			RequiredAction: ActionLifeCheck,
			Guide: []string{
				"Almost there. Open the energy tab.",
				"Keep total draw in the green zone.",
				"Under the safety line and the quest is done.",
			},
			check: func(c Context) bool {
				return c.ActiveTab == "energy" && c.TotalWatts <= safeWatts
			},
		},
	}
}
