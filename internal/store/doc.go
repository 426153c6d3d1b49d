// Package store persists completed scan sessions to a local SQLite database.
//
// The store is history only: it feeds the history, report, and review
// commands. Scan runs never consult it, so deleting the database file resets
// history without affecting detection results.
package store
