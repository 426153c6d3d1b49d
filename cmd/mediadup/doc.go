// Package main hosts the mediadup CLI entrypoint and command graph.
//
// The Cobra-based command tree drives duplicate scans, renders reports and
// keep-recommendations, and browses session history. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
