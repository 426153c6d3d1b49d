// Package report renders scan results to disk: a machine-readable JSON
// document and a human-readable text summary, both timestamped per scan.
package report
