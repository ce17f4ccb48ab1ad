// Package config loads, normalizes, and validates burrow configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemonizer and CLI need: pid file location, working directory, umask,
// stream redirection targets, shielded descriptors, privilege-drop identity,
// and logging behavior.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths, canonical log formats, and clear validation
// errors.
package config
