// Package config loads, normalizes, and validates drover configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DROVER_PID_FILE. The Config type centralizes every knob the daemon and CLI
// need: the identity (pid) file location, the three standard-stream sinks,
// the supervised task command, and logging/history settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths, canonical stream sinks, and clear validation
// errors.
package config
