// Package scan implements the duplicate-detection engine: directory
// discovery, chunked SHA-256 content hashing, filename metadata extraction,
// and deterministic grouping of byte-identical files.
//
// The Coordinator drives a session through Idle, Discovering, Hashing,
// Grouping, and Completed; Failed is terminal and reached only when no root
// is accessible or the context is cancelled. Per-file and per-root problems
// are captured as data on the Session, never raised out of Run.
//
// Ordering is deterministic: discovery assigns a sequence number to every
// candidate in a single-threaded pass, and group order plus within-group
// member order derive from those numbers regardless of how many hashing
// workers ran. Hashing reads fixed-size chunks so memory stays bounded for
// arbitrarily large media files.
package scan
