// Package config loads, normalizes, and validates mediadup configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and the scan engine need: report and database locations, the discovery
// extension filter, hashing chunk size, and worker pool sizing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config
