// Package logging assembles the structured slog loggers used across burrow.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so daemonization code tags log
// lines uniformly (pids, signals, paths). A no-op logger is provided for
// tests and for teardown paths that must never fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
