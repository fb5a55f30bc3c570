// Package config loads and validates the WattQuest Core configuration.
//
// Configuration is layered: hardcoded defaults, then the YAML file, then
// WATTQUEST_* environment variables, each layer overriding the last. Load
// resolves all three and validates the result, so the rest of the program
// never sees a partially specified Config.
//
// Secrets (the save-code signing key, MQTT credentials) belong in
// environment variables rather than the YAML file, and the file itself
// should be private (0600).
//
// Typical startup:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Game.SafePowerWatts)
package config
