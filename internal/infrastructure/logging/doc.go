// Package logging is a thin wrapper over log/slog that gives the whole
// application one consistent logger: structured key/value output, service
// and version fields stamped on every entry, and level filtering driven by
// LoggingConfig.
//
// Output format follows the config: "json" for production, "text" for
// development. Destination may be "stdout", "stderr", or a file path.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, or a file path
//
// Construct once at startup and pass down:
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8090)
//	logger.Error("failed to open database", "error", err)
//
// Never log the save-code secret or MQTT credentials.
package logging
