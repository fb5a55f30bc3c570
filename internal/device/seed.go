package device

// Seed returns fresh copies of the six appliances every new game starts with.
//
// The starting state is deliberately wasteful: everything is switched on and
// nothing is connected to the cloud yet, so the household draws 3810 W and
// the player has work to do. Callers always receive new copies; mutations in
// one playthrough can never leak into the next.
func Seed() []Device {
	return []Device{
		{
			ID: "tv-1", Name: "Living Room TV", Type: TypeTV, Room: "Living Room",
			IsOn: true, IsConnected: false, PowerConsumptionWatts: 150,
			Value: NumberValue(5), Status: "On", X: 25, Y: 30,
		},
		{
			ID: "ac-1", Name: "Bedroom Air Conditioner", Type: TypeAC, Room: "Bedroom",
			IsOn: true, IsConnected: false, PowerConsumptionWatts: 1200,
			Value: NumberValue(18), Status: "Cooling", X: 75, Y: 30,
		},
		{
			ID: "light-1", Name: "Living Room Light", Type: TypeLight, Room: "Living Room",
			IsOn: true, IsConnected: false, PowerConsumptionWatts: 60,
			Value: NumberValue(100), Status: "On", X: 40, Y: 40,
		},
		{
			ID: "airfryer-1", Name: "Air Fryer", Type: TypeAirFryer, Room: "Kitchen",
			IsOn: true, IsConnected: false, PowerConsumptionWatts: 1800,
			Value: NumberValue(200), Status: "Cooking", X: 25, Y: 75,
		},
		{
			ID: "fridge-1", Name: "Kitchen Refrigerator", Type: TypeRefrigerator, Room: "Kitchen",
			IsOn: true, IsConnected: false, PowerConsumptionWatts: 100,
			Value: NumberValue(3), Status: "Cooling", X: 15, Y: 65,
		},
		{
			ID: "washer-1", Name: "Washer", Type: TypeWasher, Room: "Utility",
			IsOn: true, IsConnected: false, PowerConsumptionWatts: 500,
			Value: NumberValue(0), Status: "Finished", X: 80, Y: 80,
		},
	}
}
