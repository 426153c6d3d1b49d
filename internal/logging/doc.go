// Package logging builds slog loggers for the CLI and the scan engine.
//
// Two output formats exist: a compact console format rendered as
// "<timestamp> <LEVEL> component: message key=value" and standard slog JSON.
// The "component" attribute is lifted into the message prefix so per-package
// loggers read naturally in console output.
package logging
